package log

import (
	"time"
)

// Event represents a bridge log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"2,keyasint"`

	// Type-specific payload (one of these will be set).
	Cycle        *CycleEvent        `cbor:"10,keyasint,omitempty"` // Poll cycle outcome
	PollError    *PollErrorEvent    `cbor:"11,keyasint,omitempty"` // Whole-batch failure
	ItemError    *ItemErrorEvent    `cbor:"12,keyasint,omitempty"` // Single-quantity failure
	Availability *AvailabilityEvent `cbor:"13,keyasint,omitempty"` // Reachability transition
	Session      *SessionEvent      `cbor:"14,keyasint,omitempty"` // Client session lifecycle
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCycle indicates a completed poll cycle.
	CategoryCycle Category = 0
	// CategoryError indicates a poll or item error.
	CategoryError Category = 1
	// CategoryState indicates an availability state change.
	CategoryState Category = 2
	// CategorySession indicates a client session event.
	CategorySession Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCycle:
		return "CYCLE"
	case CategoryError:
		return "ERROR"
	case CategoryState:
		return "STATE"
	case CategorySession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// CycleEvent captures the outcome of one poll cycle.
type CycleEvent struct {
	// Success is true when the batch call itself succeeded.
	Success bool `cbor:"1,keyasint"`

	// Duration is the cycle execution time.
	Duration time.Duration `cbor:"2,keyasint"`

	// ItemCount is the number of quantities requested.
	ItemCount int `cbor:"3,keyasint"`

	// FailedKeys lists quantities that failed decode this cycle.
	FailedKeys []string `cbor:"4,keyasint,omitempty"`
}

// PollErrorEvent captures a whole-batch poll failure.
type PollErrorEvent struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`
}

// ItemErrorEvent captures a single quantity's failure. The owning leaf
// keeps its previous value.
type ItemErrorEvent struct {
	// Key is the quantity key.
	Key string `cbor:"1,keyasint"`

	// OID is the polled object identifier.
	OID string `cbor:"2,keyasint"`

	// Message is the error message.
	Message string `cbor:"3,keyasint"`
}

// AvailabilityEvent captures a reachability state transition.
type AvailabilityEvent struct {
	// Connected is the new state.
	Connected bool `cbor:"1,keyasint"`

	// LastSuccess is the last successful cycle's completion time,
	// if there has been one.
	LastSuccess *time.Time `cbor:"2,keyasint,omitempty"`
}

// SessionEvent captures client session lifecycle events on the serving side.
type SessionEvent struct {
	// SessionID uniquely identifies the session (UUID).
	SessionID string `cbor:"1,keyasint"`

	// RemoteAddr is the peer address (IP:port).
	RemoteAddr string `cbor:"2,keyasint,omitempty"`

	// Connected is true on connect, false on disconnect.
	Connected bool `cbor:"3,keyasint"`
}
