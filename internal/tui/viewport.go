package tui

import (
	"math"
	"sync"

	"github.com/mmcdole/albumshelf/internal/domain"
)

// LineHeight is how many viewport units one terminal line counts as, so the
// engine's distances (a 100-unit load threshold) mean about five lines.
const LineHeight = 20.0

// TerminalViewport implements domain.Viewport over a scrolled region of the
// terminal. The UI goroutine resizes and scrolls it; the engine reads it and
// jumps it from the event loop.
type TerminalViewport struct {
	mu       sync.Mutex
	offset   int // First visible line
	height   int // Visible lines
	docLines int // Total content lines
	onJump   func()
}

var _ domain.Viewport = (*TerminalViewport)(nil)

// NewTerminalViewport creates a viewport. onJump, if set, is called after the
// engine moves the viewport programmatically.
func NewTerminalViewport(onJump func()) *TerminalViewport {
	return &TerminalViewport{onJump: onJump}
}

func (v *TerminalViewport) ScrollY() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(v.offset) * LineHeight
}

func (v *TerminalViewport) InnerHeight() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(v.height) * LineHeight
}

func (v *TerminalViewport) DocumentHeight() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(max(v.docLines, v.height)) * LineHeight
}

// ScrollTo jumps to y, clamped to the scrollable range like a browser window.
func (v *TerminalViewport) ScrollTo(y float64) {
	v.mu.Lock()
	v.offset = v.clamp(int(math.Round(y / LineHeight)))
	onJump := v.onJump
	v.mu.Unlock()

	if onJump != nil {
		onJump()
	}
}

// Offset returns the first visible line.
func (v *TerminalViewport) Offset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// Height returns the number of visible lines.
func (v *TerminalViewport) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

// SetHeight resizes the visible region. It reports whether anything changed.
func (v *TerminalViewport) SetHeight(lines int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	lines = max(0, lines)
	if lines == v.height {
		return false
	}
	v.height = lines
	v.offset = v.clamp(v.offset)
	return true
}

// SetDocumentLines updates the content height. It reports whether shrinking
// content pulled the offset up, which a browser reports as a scroll.
func (v *TerminalViewport) SetDocumentLines(lines int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.docLines = max(0, lines)
	next := v.clamp(v.offset)
	if next == v.offset {
		return false
	}
	v.offset = next
	return true
}

// Reset empties the document and returns to the top, as loading a new
// screen does. It does not count as a jump.
func (v *TerminalViewport) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = 0
	v.docLines = 0
}

// ScrollBy moves the viewport by delta lines. It reports whether it moved.
func (v *TerminalViewport) ScrollBy(delta int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := v.clamp(v.offset + delta)
	if next == v.offset {
		return false
	}
	v.offset = next
	return true
}

// Reveal scrolls the minimum amount to show lines [top, bottom].
// It reports whether it moved.
func (v *TerminalViewport) Reveal(top, bottom int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := v.offset
	if bottom >= next+v.height {
		next = bottom - v.height + 1
	}
	if top < next {
		next = top
	}
	next = v.clamp(next)
	if next == v.offset {
		return false
	}
	v.offset = next
	return true
}

func (v *TerminalViewport) clamp(offset int) int {
	maxOffset := max(0, v.docLines-v.height)
	return max(0, min(offset, maxOffset))
}
