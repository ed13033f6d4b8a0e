package domain

import "time"

// Viewport exposes the scrollable surface the catalog is rendered into.
// Heights are in the surface's own units (pixels in a browser, lines in a terminal).
type Viewport interface {
	// ScrollY returns the current vertical scroll offset
	ScrollY() float64

	// InnerHeight returns the visible height
	InnerHeight() float64

	// DocumentHeight returns the full height of the rendered content
	DocumentHeight() float64

	// ScrollTo jumps to y in a single non-animated move
	ScrollTo(y float64)
}

// KeyValueStore is per-tab ephemeral storage (sessionStorage semantics).
// Get reports ok=false when the key is absent.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Timer is a pending deferred callback.
type Timer interface {
	// Stop cancels the callback; it returns false if it already ran or was stopped
	Stop() bool
}

// Scheduler defers work onto the single UI thread.
// Callbacks never run concurrently with each other.
type Scheduler interface {
	// Post queues f to run after the current task
	Post(f func())

	// AfterFunc runs f once d has elapsed
	AfterFunc(d time.Duration, f func()) Timer

	// NextFrame runs f on the next animation frame
	NextFrame(f func()) Timer
}
