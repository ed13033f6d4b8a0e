package browse

import (
	"time"

	"github.com/mmcdole/albumshelf/internal/domain"
)

// SettleDelay is the pause between content appearing and the scroll jump,
// giving layout time to reach its full height.
const SettleDelay = 100 * time.Millisecond

// Restorer replays a saved scroll offset once content exists.
//
// It checks ready on every animation frame with no upper bound: if content
// never arrives, it keeps polling until Stop (the page unmounting).
type Restorer struct {
	sched  domain.Scheduler
	view   domain.Viewport
	ready  func() bool
	target float64
	done   func()

	frame  domain.Timer
	settle domain.Timer
	active bool
	polls  int
}

// NewRestorer creates a restorer that jumps to target once ready reports
// true, then calls done.
func NewRestorer(sched domain.Scheduler, view domain.Viewport, target float64, ready func() bool, done func()) *Restorer {
	return &Restorer{sched: sched, view: view, target: target, ready: ready, done: done}
}

// Start begins polling. The first check happens immediately.
func (r *Restorer) Start() {
	if r.active {
		return
	}
	r.active = true
	r.poll()
}

// Stop abandons restoration without jumping.
func (r *Restorer) Stop() {
	if r.frame != nil {
		r.frame.Stop()
		r.frame = nil
	}
	if r.settle != nil {
		r.settle.Stop()
		r.settle = nil
	}
	r.active = false
}

// Active reports whether restoration is still pending.
func (r *Restorer) Active() bool {
	return r.active
}

// Polls returns how many readiness checks have run.
func (r *Restorer) Polls() int {
	return r.polls
}

func (r *Restorer) poll() {
	r.frame = nil
	if !r.active {
		return
	}
	r.polls++
	if !r.ready() {
		r.frame = r.sched.NextFrame(r.poll)
		return
	}
	r.settle = r.sched.AfterFunc(SettleDelay, r.jump)
}

func (r *Restorer) jump() {
	r.settle = nil
	if !r.active {
		return
	}
	r.view.ScrollTo(r.target)
	r.active = false
	if r.done != nil {
		r.done()
	}
}
