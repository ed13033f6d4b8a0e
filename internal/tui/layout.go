package tui

import "github.com/mmcdole/albumshelf/internal/browse"

// Vertical layout: tab header, search/tag line, footer
const (
	HeaderHeight = 2
	FooterHeight = 1
	ChromeHeight = HeaderHeight + FooterHeight

	MinContentHeight = 1
)

// contentHeight returns the lines available to the album list
func (m Model) contentHeight() int {
	return max(MinContentHeight, m.Height-ChromeHeight)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	m.List.SetWidth(m.Width)
	m.SearchInput.Width = max(10, m.Width/2)
	m.TagPicker.SetHeight(m.contentHeight() - 6)

	view := m.engine.Viewport()
	if view.SetHeight(m.contentHeight()) {
		m.engine.Emit(browse.EventResize)
	}
	m.List.ClampCursorTo(view.Offset(), view.Height())
}
