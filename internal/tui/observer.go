package tui

import (
	"sync"

	"github.com/mmcdole/albumshelf/internal/browse"
	"github.com/mmcdole/albumshelf/internal/route"
)

// update is what the engine last published for the UI.
type update struct {
	snapshot *browse.Snapshot
	location string // Player path the engine navigated to
}

// ChannelObserver adapts browse.Observer (and engine navigation) to a channel
// for Bubble Tea. The latest state wins; the channel only signals that
// something changed.
type ChannelObserver struct {
	mu     sync.Mutex
	latest update
	ch     chan struct{}
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ch: make(chan struct{}, 1)}
}

// OnChange records the snapshot and signals (non-blocking if already signalled).
func (o *ChannelObserver) OnChange(s browse.Snapshot) {
	o.mu.Lock()
	o.latest.snapshot = &s
	o.mu.Unlock()
	o.Poke()
}

// OnRoute records a navigation away from the home screen. The UI receives
// the location, as a player screen would, and reads the route back from it.
func (o *ChannelObserver) OnRoute(r route.Route) {
	o.mu.Lock()
	o.latest.location = r.String()
	o.mu.Unlock()
	o.Poke()
}

// Poke signals a change without new state, e.g. the viewport moved.
func (o *ChannelObserver) Poke() {
	select {
	case o.ch <- struct{}{}:
	default: // Already signalled
	}
}

// take returns and clears the pending state.
func (o *ChannelObserver) take() update {
	o.mu.Lock()
	defer o.mu.Unlock()
	u := o.latest
	o.latest = update{}
	return u
}
