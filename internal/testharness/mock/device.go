// Package mock provides mock poll and serve implementations for testing.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/snmptree/snmptree-go/pkg/poll"
)

// Response is one scripted answer to a batch read.
type Response struct {
	// Values maps OID to the raw value the device returns. An OID
	// present in Errs instead yields that item error.
	Values map[string]any

	// Errs maps OID to a per-item error (poll.ErrNoSuchObject and
	// friends).
	Errs map[string]error

	// Err, when set, fails the whole batch.
	Err error

	// Delay is how long the read blocks before answering.
	Delay time.Duration
}

// Device is a scripted mock of a polled device. Each BatchRead consumes
// the next Response from the script; when the script is exhausted the
// last response repeats.
type Device struct {
	mu sync.Mutex

	script []Response
	calls  int

	// readTimes records the start time of every BatchRead.
	readTimes []time.Time
	// readOIDs records the OID list of every BatchRead.
	readOIDs [][]string
}

// NewDevice creates a mock device with the given response script.
func NewDevice(script ...Response) *Device {
	return &Device{script: script}
}

var _ poll.BatchReader = (*Device)(nil)

// BatchRead answers from the script.
func (d *Device) BatchRead(ctx context.Context, oids []string) ([]poll.Result, error) {
	d.mu.Lock()
	resp := d.current()
	d.calls++
	d.readTimes = append(d.readTimes, time.Now())
	d.readOIDs = append(d.readOIDs, append([]string(nil), oids...))
	d.mu.Unlock()

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if resp.Err != nil {
		return nil, resp.Err
	}

	results := make([]poll.Result, 0, len(oids))
	for _, oid := range oids {
		r := poll.Result{OID: oid}
		if err, ok := resp.Errs[oid]; ok {
			r.Err = err
		} else {
			r.Value = resp.Values[oid]
		}
		results = append(results, r)
	}
	return results, nil
}

// Append adds responses to the end of the script.
func (d *Device) Append(responses ...Response) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.script = append(d.script, responses...)
}

// Calls returns how many batch reads the device has served.
func (d *Device) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// ReadTimes returns the start times of all batch reads.
func (d *Device) ReadTimes() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]time.Time(nil), d.readTimes...)
}

// ReadOIDs returns the OID lists of all batch reads.
func (d *Device) ReadOIDs() [][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]string, len(d.readOIDs))
	for i, oids := range d.readOIDs {
		out[i] = append([]string(nil), oids...)
	}
	return out
}

func (d *Device) current() Response {
	if len(d.script) == 0 {
		return Response{}
	}
	if d.calls < len(d.script) {
		return d.script[d.calls]
	}
	return d.script[len(d.script)-1]
}
