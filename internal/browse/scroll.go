package browse

import (
	"time"

	"github.com/mmcdole/albumshelf/internal/domain"
)

const (
	// ScrollThreshold is the remaining distance to the bottom that triggers a page load
	ScrollThreshold = 100.0

	// Cooldown is the dead time after a trigger during which triggers are dropped
	Cooldown = 200 * time.Millisecond
)

// ScrollState is the infinite-scroll controller's state.
type ScrollState int

const (
	ScrollIdle ScrollState = iota
	ScrollLoading
)

func (s ScrollState) String() string {
	if s == ScrollLoading {
		return "loading"
	}
	return "idle"
}

// PageAdvancer grows the active tab's page counter by one.
// It returns false when the filtered set is already fully visible.
type PageAdvancer interface {
	AdvancePage() bool
}

// InfiniteScroll requests another page when the viewport nears the bottom.
// At most one page is requested per cool-down window.
type InfiniteScroll struct {
	sched domain.Scheduler
	view  domain.Viewport
	pager PageAdvancer

	state    ScrollState
	cooldown domain.Timer
	offs     []func()
}

// NewInfiniteScroll creates a detached controller in the Idle state.
func NewInfiniteScroll(sched domain.Scheduler, view domain.Viewport, pager PageAdvancer) *InfiniteScroll {
	return &InfiniteScroll{sched: sched, view: view, pager: pager}
}

// Attach starts observing scroll and resize events.
func (c *InfiniteScroll) Attach(ev *Events) {
	if len(c.offs) > 0 {
		return
	}
	c.offs = append(c.offs,
		ev.On(EventScroll, c.Handle),
		ev.On(EventResize, c.Handle),
	)
}

// Detach stops observing and cancels a pending cool-down.
func (c *InfiniteScroll) Detach() {
	for _, off := range c.offs {
		off()
	}
	c.offs = nil
	if c.cooldown != nil {
		c.cooldown.Stop()
		c.cooldown = nil
	}
	c.state = ScrollIdle
}

// State returns the current state.
func (c *InfiniteScroll) State() ScrollState {
	return c.state
}

// SetState forces the state; used to start from a known state.
func (c *InfiniteScroll) SetState(s ScrollState) {
	c.state = s
}

// Handle evaluates the viewport after a scroll or resize.
func (c *InfiniteScroll) Handle() {
	if c.state == ScrollLoading {
		return
	}
	remaining := c.view.DocumentHeight() - (c.view.ScrollY() + c.view.InnerHeight())
	if remaining >= ScrollThreshold {
		return
	}

	c.state = ScrollLoading
	c.pager.AdvancePage()
	c.cooldown = c.sched.AfterFunc(Cooldown, func() {
		c.cooldown = nil
		c.state = ScrollIdle
	})
}
