package bridge

import (
	"errors"
	"sort"
	"time"
)

// ErrBatchPoll indicates the whole batch read failed. The cycle is a
// total failure: no leaf values were updated.
var ErrBatchPoll = errors.New("batch poll failed")

// ItemResult is the per-quantity outcome of one cycle.
type ItemResult struct {
	// Value is the decoded value written to the leaf. nil when Err is set.
	Value any

	// Err is the item-level failure, if any. The leaf kept its
	// previous value.
	Err error
}

// CycleResult is the transient outcome of one poll cycle. It lives only
// until the availability tracker has observed it; nothing is persisted.
type CycleResult struct {
	// Success is true when the batch call itself succeeded, even if
	// individual items failed decode.
	Success bool

	// Completed is the cycle's completion instant.
	Completed time.Time

	// Err is the batch failure cause when Success is false.
	Err error

	// Items maps quantity keys to their outcome. Empty on batch failure.
	Items map[string]ItemResult
}

// FailedKeys returns the keys of items that failed this cycle, sorted.
func (r CycleResult) FailedKeys() []string {
	var keys []string
	for key, item := range r.Items {
		if item.Err != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
