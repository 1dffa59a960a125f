package bridge

import (
	"sync"
	"time"

	"github.com/snmptree/snmptree-go/pkg/log"
	"github.com/snmptree/snmptree-go/pkg/serve"
	"github.com/snmptree/snmptree-go/pkg/tree"
)

// Availability derives the bridge's reachability signal from poll cycle
// outcomes and republishes it as two ordinary status leaves: the
// connected flag and the timestamp of the last successful cycle.
//
// Initial state is disconnected with no last-success timestamp; the
// first successful cycle transitions to connected. A successful batch
// counts as connected even when individual items failed decode.
type Availability struct {
	mu sync.Mutex

	server serve.TreeServer
	logger log.Logger

	connected   bool
	lastSuccess time.Time
	hasSuccess  bool
}

// NewAvailability creates a tracker in the disconnected state.
// logger may be nil to disable event logging.
func NewAvailability(server serve.TreeServer, logger log.Logger) *Availability {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Availability{server: server, logger: logger}
}

// Start publishes the initial disconnected state. Call once after the
// tree has been published, before the first cycle.
func (a *Availability) Start() error {
	return a.server.UpdateLeaf(tree.KeyConnected, false)
}

// Observe records one cycle's outcome and republishes both signals.
//
// On success the tracker transitions to connected and advances the
// last-success timestamp to the cycle's completion instant. On failure
// it transitions to disconnected; the timestamp records the last
// success, not the last attempt, and is left unchanged.
func (a *Availability) Observe(result CycleResult) {
	a.mu.Lock()
	wasConnected := a.connected
	a.connected = result.Success
	if result.Success {
		a.lastSuccess = result.Completed
		a.hasSuccess = true
	}
	lastSuccess := a.lastSuccess
	hasSuccess := a.hasSuccess
	a.mu.Unlock()

	// Write failures here mean the leaf vanished, which cannot happen
	// with a tree built from a validated registry.
	_ = a.server.UpdateLeaf(tree.KeyConnected, result.Success)
	if result.Success {
		_ = a.server.UpdateLeaf(tree.KeyLastSuccessTime, lastSuccess.UTC().Format(time.RFC3339))
	}

	if wasConnected != result.Success {
		event := log.Event{
			Timestamp: time.Now(),
			Category:  log.CategoryState,
			Availability: &log.AvailabilityEvent{
				Connected: result.Success,
			},
		}
		if hasSuccess {
			t := lastSuccess
			event.Availability.LastSuccess = &t
		}
		a.logger.Log(event)
	}
}

// Connected reports the current reachability state.
func (a *Availability) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// LastSuccess returns the completion time of the last successful cycle.
// ok is false until the first success.
func (a *Availability) LastSuccess() (t time.Time, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSuccess, a.hasSuccess
}
