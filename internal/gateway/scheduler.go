package gateway

import (
	"sync"
	"time"
)

// Scheduler executes zero-argument actions after a delay.
//
// Implementations must support many concurrently pending actions without
// head-of-line blocking, and must be drainable at shutdown: pending actions
// are abandoned, never force-run.
type Scheduler interface {
	// AfterFunc runs fn after delay on a worker goroutine.
	//
	// Returns:
	//   - error: ErrSchedulerClosed after Close, ErrSchedulerFull when the
	//     pending limit is reached; nil means fn will run unless the
	//     scheduler shuts down first
	AfterFunc(delay time.Duration, fn func()) error

	// Close stops the scheduler. Pending timers are cancelled and their
	// actions abandoned. Blocks until the workers have drained.
	Close()
}

// TimerScheduler is a bounded, worker-pooled Scheduler.
//
// Each AfterFunc call occupies one pending slot from submission until a
// worker picks the action up. The slot count is capped so a storm of
// persistently failing deliveries cannot exhaust memory or timers. Expired
// actions run on a fixed worker pool sized independently of the number of
// callers, so a burst of new submissions cannot starve retries already
// scheduled.
type TimerScheduler struct {
	mu      sync.Mutex
	closed  bool
	nextID  uint64
	timers  map[uint64]*time.Timer
	pending int

	maxPending int
	tasks      chan func()
	quit       chan struct{}
	wg         sync.WaitGroup
}

// NewTimerScheduler starts a scheduler with the given worker pool size and
// pending action limit. Both must be at least 1.
func NewTimerScheduler(workers, maxPending int) *TimerScheduler {
	if workers < 1 {
		workers = 1
	}
	if maxPending < 1 {
		maxPending = 1
	}

	s := &TimerScheduler{
		timers:     make(map[uint64]*time.Timer),
		maxPending: maxPending,
		tasks:      make(chan func(), maxPending),
		quit:       make(chan struct{}),
	}

	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}

	return s
}

// AfterFunc schedules fn to run after delay.
func (s *TimerScheduler) AfterFunc(delay time.Duration, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	if s.pending >= s.maxPending {
		return ErrSchedulerFull
	}

	s.nextID++
	id := s.nextID
	s.pending++
	s.timers[id] = time.AfterFunc(delay, func() {
		s.fire(id, fn)
	})

	return nil
}

// fire moves an expired action from its timer onto the worker queue.
func (s *TimerScheduler) fire(id uint64, fn func()) {
	s.mu.Lock()
	delete(s.timers, id)
	if s.closed {
		s.pending--
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// The queue has capacity for every pending slot, so this send cannot
	// block while the invariant pending <= maxPending holds.
	select {
	case s.tasks <- fn:
	case <-s.quit:
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
	}
}

// worker drains the task queue until shutdown.
func (s *TimerScheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case fn := <-s.tasks:
			s.mu.Lock()
			s.pending--
			s.mu.Unlock()
			fn()
		case <-s.quit:
			return
		}
	}
}

// Close cancels all pending timers and stops the workers.
//
// Actions whose timers have not expired are abandoned. Blocks until every
// worker has exited; an action already running completes normally.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, timer := range s.timers {
		if timer.Stop() {
			s.pending--
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	close(s.quit)
	s.wg.Wait()
}
