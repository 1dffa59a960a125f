package bridge

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Scheduler errors.
var (
	ErrInvalidInterval = errors.New("poll interval must be positive")
	ErrAlreadyStarted  = errors.New("scheduler already started")
	ErrNotStarted      = errors.New("scheduler not started")
)

// Scheduler fires poll cycles at a fixed period.
//
// Cycles run synchronously on the scheduler's own goroutine, so at most
// one cycle is ever in flight: a cycle that outlasts the period simply
// delays the next tick (overlapping ticks are dropped, not queued).
// This is what guarantees that a failed read never mixes with a
// concurrent successful one and that writes to the same leaf are never
// reordered across cycles.
type Scheduler struct {
	mu sync.Mutex

	interval     time.Duration
	mapper       *Mapper
	availability *Availability

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a scheduler. The interval must be positive; a
// non-positive interval is a fatal configuration error.
func NewScheduler(interval time.Duration, mapper *Mapper, availability *Availability) (*Scheduler, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Scheduler{
		interval:     interval,
		mapper:       mapper,
		availability: availability,
	}, nil
}

// Interval returns the configured poll period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start publishes the initial availability state and begins the cycle
// loop. The first cycle runs immediately; subsequent cycles fire every
// interval. The loop stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return ErrAlreadyStarted
	}
	if err := s.availability.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	return nil
}

// Stop cancels the cycle loop and waits for an in-flight cycle to
// complete and apply its updates.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return ErrNotStarted
	}
	cancel()
	<-done
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes one cycle and feeds its outcome to the availability
// tracker. Runs on the scheduler goroutine only.
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result := s.mapper.RunCycle(ctx)
	if ctx.Err() != nil {
		// Shutdown raced the cycle; don't report a cancellation as a
		// device failure.
		return
	}
	s.availability.Observe(result)
}
