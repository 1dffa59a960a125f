package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/snmptree/snmptree-go/pkg/log"
	"github.com/snmptree/snmptree-go/pkg/poll"
	"github.com/snmptree/snmptree-go/pkg/registry"
	"github.com/snmptree/snmptree-go/pkg/serve"
)

// binding couples one quantity with its decode function, captured once
// at construction. The registry is the single source of truth for both
// the poll order and the decode behavior.
type binding struct {
	quantity registry.Quantity
	decode   decodeFunc
}

// Mapper executes poll cycles. It holds no state beyond its fixed
// bindings; each cycle is a pure transform from one batch read to a set
// of leaf updates.
type Mapper struct {
	reader poll.BatchReader
	server serve.TreeServer
	logger log.Logger

	bindings []binding
	oids     []string
}

// NewMapper creates a mapper for the given quantity list.
// logger may be nil to disable event logging.
func NewMapper(quantities []registry.Quantity, reader poll.BatchReader, server serve.TreeServer, logger log.Logger) *Mapper {
	if logger == nil {
		logger = log.NoopLogger{}
	}

	bindings := make([]binding, len(quantities))
	for i, q := range quantities {
		bindings[i] = binding{quantity: q, decode: decoderFor(q.Kind)}
	}

	return &Mapper{
		reader:   reader,
		server:   server,
		logger:   logger,
		bindings: bindings,
		oids:     registry.OIDs(quantities),
	}
}

// RunCycle executes one poll cycle: a single batch read for all
// quantities in registry order, then per-item decode and leaf updates.
//
// A batch failure leaves every leaf untouched and reports
// Success=false. Item-level failures are isolated: the failed
// quantity's leaf keeps its previous value, all others are updated, and
// the cycle still reports Success=true.
func (m *Mapper) RunCycle(ctx context.Context) CycleResult {
	started := time.Now()

	results, err := m.reader.BatchRead(ctx, m.oids)
	if err == nil && len(results) != len(m.bindings) {
		err = fmt.Errorf("expected %d results, got %d", len(m.bindings), len(results))
	}
	if err != nil {
		batchErr := fmt.Errorf("%w: %v", ErrBatchPoll, err)
		m.logger.Log(log.Event{
			Timestamp: time.Now(),
			Category:  log.CategoryError,
			PollError: &log.PollErrorEvent{Message: batchErr.Error()},
		})

		result := CycleResult{
			Success:   false,
			Completed: time.Now(),
			Err:       batchErr,
		}
		m.logCycle(result, started)
		return result
	}

	items := make(map[string]ItemResult, len(m.bindings))
	for i, b := range m.bindings {
		items[b.quantity.Key] = m.applyItem(b, results[i])
	}

	result := CycleResult{
		Success:   true,
		Completed: time.Now(),
		Items:     items,
	}
	m.logCycle(result, started)
	return result
}

// applyItem decodes one item and writes it to the owning leaf. Any
// failure is confined to this quantity.
func (m *Mapper) applyItem(b binding, res poll.Result) ItemResult {
	itemErr := res.Err

	var value any
	if itemErr == nil {
		value, itemErr = b.decode(res.Value)
	}
	if itemErr == nil {
		itemErr = m.server.UpdateLeaf(b.quantity.Key, value)
	}

	if itemErr != nil {
		m.logger.Log(log.Event{
			Timestamp: time.Now(),
			Category:  log.CategoryError,
			ItemError: &log.ItemErrorEvent{
				Key:     b.quantity.Key,
				OID:     b.quantity.OID,
				Message: itemErr.Error(),
			},
		})
		return ItemResult{Err: itemErr}
	}
	return ItemResult{Value: value}
}

func (m *Mapper) logCycle(result CycleResult, started time.Time) {
	m.logger.Log(log.Event{
		Timestamp: result.Completed,
		Category:  log.CategoryCycle,
		Cycle: &log.CycleEvent{
			Success:    result.Success,
			Duration:   result.Completed.Sub(started),
			ItemCount:  len(m.bindings),
			FailedKeys: result.FailedKeys(),
		},
	})
}
