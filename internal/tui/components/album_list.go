package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/tui/styles"
)

// AlbumList renders the visible prefix of the filtered catalog as fixed-height
// rows. Scrolling is owned by the viewport; the list only maps lines to rows.
type AlbumList struct {
	albums    []*domain.Album
	hasMore   bool
	cursor    int
	rowHeight int
	width     int
}

// NewAlbumList creates an empty list whose rows are rowHeight lines tall
func NewAlbumList(rowHeight int) AlbumList {
	return AlbumList{rowHeight: max(1, rowHeight)}
}

// SetAlbums replaces the rows, keeping the cursor in range
func (l *AlbumList) SetAlbums(albums []*domain.Album, hasMore bool) {
	l.albums = albums
	l.hasMore = hasMore
	l.cursor = max(0, min(l.cursor, len(albums)-1))
}

// SetWidth sets the render width
func (l *AlbumList) SetWidth(w int) {
	l.width = w
}

// RowHeight returns the number of lines per row
func (l AlbumList) RowHeight() int {
	return l.rowHeight
}

// Len returns the number of rows
func (l AlbumList) Len() int {
	return len(l.albums)
}

// Cursor returns the selected row
func (l AlbumList) Cursor() int {
	return l.cursor
}

// Selected returns the selected album, or nil when the list is empty
func (l AlbumList) Selected() *domain.Album {
	if l.cursor < 0 || l.cursor >= len(l.albums) {
		return nil
	}
	return l.albums[l.cursor]
}

// SetCursor moves the selection, clamped to the rows
func (l *AlbumList) SetCursor(i int) {
	l.cursor = max(0, min(i, len(l.albums)-1))
}

// MoveCursor moves the selection by delta rows
func (l *AlbumList) MoveCursor(delta int) {
	l.SetCursor(l.cursor + delta)
}

// DocumentLines is the full height of the list, including the footer line
// shown while more albums can be loaded.
func (l AlbumList) DocumentLines() int {
	n := len(l.albums) * l.rowHeight
	if l.hasMore {
		n++
	}
	return n
}

// CursorSpan returns the first and last line of the selected row
func (l AlbumList) CursorSpan() (top, bottom int) {
	top = l.cursor * l.rowHeight
	return top, top + l.rowHeight - 1
}

// ClampCursorTo keeps the selection inside the visible line window
func (l *AlbumList) ClampCursorTo(offset, height int) {
	if len(l.albums) == 0 || height <= 0 {
		return
	}
	first := (offset + l.rowHeight - 1) / l.rowHeight
	last := (offset+height)/l.rowHeight - 1
	if last < first {
		last = first
	}
	if l.cursor < first {
		l.SetCursor(first)
	} else if l.cursor > last {
		l.SetCursor(last)
	}
}

// View renders the lines [offset, offset+height)
func (l AlbumList) View(offset, height int) string {
	if height <= 0 {
		return ""
	}

	lines := make([]string, 0, height)
	for line := offset; line < offset+height; line++ {
		row, sub := line/l.rowHeight, line%l.rowHeight
		switch {
		case row < len(l.albums):
			lines = append(lines, l.renderLine(l.albums[row], sub, row == l.cursor))
		case row == len(l.albums) && sub == 0 && l.hasMore:
			lines = append(lines, styles.DimStyle.Render("  ↓ scroll for more"))
		default:
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

func (l AlbumList) renderLine(a *domain.Album, sub int, selected bool) string {
	inner := max(10, l.width-2)

	switch sub {
	case 0:
		badge := styles.PaidBadgeStyle.Render(a.PriceLabel())
		if a.IsFree {
			badge = styles.FreeBadgeStyle.Render(a.PriceLabel())
		}
		progress := a.Progress()
		titleWidth := inner - lipgloss.Width(badge) - len(progress) - 3
		return styles.RenderListRow([]styles.RowPart{
			{Text: styles.Pad(styles.Truncate(a.Title, titleWidth), titleWidth)},
			{Text: " " + progress + " "},
		}, selected, inner-lipgloss.Width(badge)+1) + badge

	case 1:
		bar := ""
		if a.EpisodeCount > 0 {
			pct := float64(a.CurrentEpisode) / float64(a.EpisodeCount) * 100
			bar = styles.RenderProgressBar(pct, 10) + " "
		}
		tags := styles.Truncate(strings.Join(a.Tags, " · "), inner-12)
		return "  " + bar + styles.AccentStyle.Render(tags)

	case 2:
		desc := strings.Join(strings.Fields(a.Description), " ")
		return "  " + styles.DimStyle.Render(styles.Truncate(desc, inner-2))

	default:
		return ""
	}
}

// EmptyView renders the no-results state with optional suggestions
func EmptyView(query string, suggestions []string, width int) string {
	var b strings.Builder
	if query == "" {
		b.WriteString(styles.DimStyle.Render("  Nothing here yet."))
		return b.String()
	}
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  No albums match %q.", query)))
	if len(suggestions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.SubtitleStyle.Render("  Did you mean:"))
		for _, s := range suggestions {
			b.WriteString("\n    ")
			b.WriteString(styles.AccentStyle.Render(styles.Truncate(s, width-6)))
		}
	}
	return b.String()
}
