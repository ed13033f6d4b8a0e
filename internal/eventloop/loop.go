// Package eventloop provides the single UI thread the browse engine runs on.
//
// Every callback (posted task, timer, frame callback) runs on the loop, one at
// a time, so engine state needs no locking. Other goroutines hand work to the
// loop with Post or Do.
package eventloop

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/albumshelf/internal/domain"
)

// FrameInterval is the spacing between animation frames (~60Hz).
const FrameInterval = 16 * time.Millisecond

// Loop is a cooperative task queue with timers.
type Loop struct {
	clock  clockwork.Clock
	logger *slog.Logger

	mu     sync.Mutex
	tasks  []func()
	timers timerHeap
	seq    uint64
	closed bool

	wake    chan struct{}
	closeCh chan struct{}
	once    sync.Once
}

// New creates a loop. A nil clock uses the real clock.
func New(clock clockwork.Clock, logger *slog.Logger) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		clock:   clock,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		closeCh: make(chan struct{}),
	}
}

var _ domain.Scheduler = (*Loop)(nil)

// Clock returns the loop's time source.
func (l *Loop) Clock() clockwork.Clock {
	return l.clock
}

// Post queues f behind any task already waiting. Posting to a closed loop is a no-op.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.tasks = append(l.tasks, f)
	l.mu.Unlock()
	l.signal()
}

// AfterFunc runs f on the loop once d has elapsed on the loop's clock.
func (l *Loop) AfterFunc(d time.Duration, f func()) domain.Timer {
	t := &timer{loop: l, fn: f, index: -1}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return t
	}
	l.seq++
	t.seq = l.seq
	t.due = l.clock.Now().Add(d)
	heap.Push(&l.timers, t)
	l.mu.Unlock()

	l.signal()
	return t
}

// NextFrame runs f on the next animation frame.
func (l *Loop) NextFrame(f func()) domain.Timer {
	return l.AfterFunc(FrameInterval, f)
}

// Do runs f on the loop and waits for it to finish. It returns false if the
// loop closed or ctx ended first. Only valid while Run is active.
func (l *Loop) Do(ctx context.Context, f func()) bool {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		f()
	})
	select {
	case <-done:
		return true
	case <-l.closeCh:
		return false
	case <-ctx.Done():
		return false
	}
}

// Pending returns the number of queued tasks and armed timers.
func (l *Loop) Pending() (tasks, timers int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks), len(l.timers)
}

// Flush runs queued tasks and every timer that is due, on the calling
// goroutine, until nothing runnable is left. It returns how many callbacks ran.
// Must not be called while Run is active.
func (l *Loop) Flush() int {
	ran := 0
	for {
		f := l.next()
		if f == nil {
			return ran
		}
		f()
		ran++
	}
}

// Run drives the loop until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("event loop started")
	defer l.logger.Debug("event loop stopped")

	for {
		l.Flush()

		var timerC <-chan time.Time
		var t clockwork.Timer
		if wait, ok := l.nextWait(); ok {
			t = l.clock.NewTimer(wait)
			timerC = t.Chan()
		}

		select {
		case <-ctx.Done():
			stopTimer(t)
			l.Close()
			return ctx.Err()
		case <-l.closeCh:
			stopTimer(t)
			return nil
		case <-l.wake:
		case <-timerC:
		}
		stopTimer(t)
	}
}

// Close stops the loop and discards pending work. Safe to call more than once.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.tasks = nil
		for _, t := range l.timers {
			t.index = -1
		}
		l.timers = nil
		l.mu.Unlock()
		close(l.closeCh)
	})
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) > 0 {
		f := l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		return f
	}
	if len(l.timers) > 0 && !l.timers[0].due.After(l.clock.Now()) {
		t := heap.Pop(&l.timers).(*timer)
		return t.fn
	}
	return nil
}

// nextWait returns how long until the earliest timer is due.
func (l *Loop) nextWait() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return 0, false
	}
	wait := l.timers[0].due.Sub(l.clock.Now())
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default: // Already signalled
	}
}

func stopTimer(t clockwork.Timer) {
	if t != nil {
		t.Stop()
	}
}
