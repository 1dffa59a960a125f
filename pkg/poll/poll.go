// Package poll provides the monitoring-protocol client boundary.
//
// The bridge core depends only on the BatchReader interface; the
// SNMP-backed implementation lives in snmp.go. A batch read either
// fails as a whole (transport or protocol error) or returns one Result
// per requested OID, where individual results may carry an item-level
// error marker.
package poll

import (
	"context"
	"errors"
)

// Item-level error markers. A Result carrying one of these means the
// device answered the batch but could not serve that single object;
// the owning leaf keeps its previous value.
var (
	ErrNoSuchObject   = errors.New("no such object")
	ErrNoSuchInstance = errors.New("no such instance")
	ErrEndOfMib       = errors.New("end of MIB view")
	ErrNullValue      = errors.New("null value")
)

// Result is the outcome for one polled OID.
type Result struct {
	// OID is the object identifier that was requested.
	OID string

	// Value is the raw decoded wire value. nil when Err is set.
	Value any

	// Err is the item-level error marker, if any.
	Err error
}

// BatchReader issues one batch read against the monitored device.
type BatchReader interface {
	// BatchRead requests all OIDs in order and returns one Result per
	// OID, in the same order. A non-nil error means the whole batch
	// failed and no per-item results are available.
	BatchRead(ctx context.Context, oids []string) ([]Result, error)
}
