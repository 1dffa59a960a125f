package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snmptree/snmptree-go/internal/testharness/mock"
	"github.com/snmptree/snmptree-go/pkg/registry"
	"github.com/snmptree/snmptree-go/pkg/tree"
)

func newTestScheduler(t *testing.T, interval time.Duration, device *mock.Device) (*Scheduler, *mock.Server) {
	t.Helper()
	server := mock.NewServer()
	tr, err := tree.Build(registry.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := server.Publish(tr); err != nil {
		t.Fatal(err)
	}
	mapper := NewMapper(registry.Default(), device, server, nil)
	availability := NewAvailability(server, nil)

	s, err := NewScheduler(interval, mapper, availability)
	if err != nil {
		t.Fatal(err)
	}
	return s, server
}

func TestNewScheduler_InvalidInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		if _, err := NewScheduler(interval, nil, nil); !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("NewScheduler(%v) error = %v, want %v", interval, err, ErrInvalidInterval)
		}
	}
}

func TestScheduler_RunsImmediately(t *testing.T) {
	device := mock.NewDevice(mock.Response{Values: healthyValues()})
	s, server := newTestScheduler(t, time.Hour, device)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	// The first cycle fires on start, not after the first tick.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if device.Calls() >= 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if device.Calls() < 1 {
		t.Fatal("no cycle ran within the deadline")
	}

	// Wait for the cycle's updates to land.
	deadline = time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := server.UpdatesFor(tree.KeyConnected); len(got) >= 2 && got[len(got)-1] == true {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("connected leaf never reached true")
}

func TestScheduler_PeriodicCycles(t *testing.T) {
	device := mock.NewDevice(mock.Response{Values: healthyValues()})
	s, _ := newTestScheduler(t, 20*time.Millisecond, device)

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && device.Calls() < 3 {
		time.Sleep(5 * time.Millisecond)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if device.Calls() < 3 {
		t.Errorf("only %d cycles ran", device.Calls())
	}
}

func TestScheduler_NoOverlappingCycles(t *testing.T) {
	// Each cycle takes three times the interval. Cycles must run
	// strictly one after another, so consecutive batch reads are
	// spaced at least one cycle duration apart.
	const interval = 20 * time.Millisecond
	const cycleDuration = 3 * interval

	device := mock.NewDevice(mock.Response{
		Values: healthyValues(),
		Delay:  cycleDuration,
	})
	s, _ := newTestScheduler(t, interval, device)

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && device.Calls() < 3 {
		time.Sleep(5 * time.Millisecond)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}

	times := device.ReadTimes()
	if len(times) < 2 {
		t.Fatalf("only %d cycles ran", len(times))
	}
	for i := 1; i < len(times); i++ {
		if gap := times[i].Sub(times[i-1]); gap < cycleDuration {
			t.Errorf("cycles %d and %d overlap: gap %v < cycle duration %v",
				i-1, i, gap, cycleDuration)
		}
	}
}

func TestScheduler_StartTwice(t *testing.T) {
	device := mock.NewDevice(mock.Response{Values: healthyValues()})
	s, _ := newTestScheduler(t, time.Hour, device)

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start error = %v, want %v", err, ErrAlreadyStarted)
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	device := mock.NewDevice()
	s, _ := newTestScheduler(t, time.Hour, device)

	if err := s.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Stop error = %v, want %v", err, ErrNotStarted)
	}
}

func TestScheduler_StopWaitsForCycle(t *testing.T) {
	device := mock.NewDevice(mock.Response{
		Values: healthyValues(),
		Delay:  50 * time.Millisecond,
	})
	s, _ := newTestScheduler(t, time.Hour, device)

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	// Let the first cycle begin.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && device.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	// After Stop returns no further cycles run.
	calls := device.Calls()
	time.Sleep(30 * time.Millisecond)
	if device.Calls() != calls {
		t.Error("a cycle ran after Stop returned")
	}
}

func TestScheduler_ContextCancelStops(t *testing.T) {
	device := mock.NewDevice(mock.Response{Values: healthyValues()})
	s, _ := newTestScheduler(t, 10*time.Millisecond, device)

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && device.Calls() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	// The loop drains; Stop still returns cleanly after cancellation.
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
}
