package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/albumshelf/internal/search"
	"github.com/mmcdole/albumshelf/internal/tui/styles"
)

// allTagsLabel is the picker entry that clears the tag filter
const allTagsLabel = "All"

// TagSelection is the user's confirmed choice. An empty Tag clears the filter.
type TagSelection struct {
	Tag string
}

// TagPicker is a popup for choosing the active tab's tag, narrowed by typing
type TagPicker struct {
	visible bool
	input   textinput.Model
	tags    []string
	active  string
	matches []search.TagMatch
	cursor  int
	height  int
}

// NewTagPicker creates a hidden tag picker
func NewTagPicker() TagPicker {
	ti := textinput.New()
	ti.Placeholder = "type to narrow"
	ti.Prompt = "# "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.CharLimit = 64
	return TagPicker{input: ti, height: 10}
}

// Show opens the picker over tags with active preselected
func (p *TagPicker) Show(tags []string, active string) {
	p.visible = true
	p.tags = tags
	p.active = active
	p.input.SetValue("")
	p.input.Focus()
	p.refresh()

	// Position cursor on the active tag
	p.cursor = 0
	for i, m := range p.matches {
		if m.Tag == active {
			p.cursor = i + 1
			break
		}
	}
}

// Hide dismisses the picker
func (p *TagPicker) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns whether the picker is shown
func (p TagPicker) IsVisible() bool {
	return p.visible
}

// SetHeight limits how many entries are listed
func (p *TagPicker) SetHeight(h int) {
	p.height = max(3, h)
}

// Update processes a key press. A non-nil selection means the user confirmed.
func (p *TagPicker) Update(msg tea.KeyMsg) (tea.Cmd, *TagSelection) {
	if !p.visible {
		return nil, nil
	}

	switch msg.String() {
	case "down", "ctrl+n":
		if p.cursor < len(p.matches) {
			p.cursor++
		}
		return nil, nil
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
		}
		return nil, nil
	case "enter":
		p.Hide()
		if p.cursor == 0 || p.cursor > len(p.matches) {
			return nil, &TagSelection{}
		}
		return nil, &TagSelection{Tag: p.matches[p.cursor-1].Tag}
	case "esc":
		p.Hide()
		return nil, nil
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refresh()
		// Jump to the best match while narrowing
		p.cursor = 0
		if p.input.Value() != "" && len(p.matches) > 0 {
			p.cursor = 1
		}
	}
	return cmd, nil
}

func (p *TagPicker) refresh() {
	p.matches = search.MatchTags(p.input.Value(), p.tags)
}

// View renders the picker
func (p TagPicker) View() string {
	if !p.visible {
		return ""
	}

	const width = 28
	var lines []string
	lines = append(lines, p.input.View(), "")

	// Entry 0 is "All", then the matches
	total := len(p.matches) + 1
	start := 0
	if p.cursor >= p.height {
		start = p.cursor - p.height + 1
	}
	end := min(total, start+p.height)

	for i := start; i < end; i++ {
		label := allTagsLabel
		var matched []int
		isActive := p.active == ""
		if i > 0 {
			m := p.matches[i-1]
			label, matched, isActive = m.Tag, m.MatchedIndexes, m.Tag == p.active
		}

		prefix := "  "
		if isActive {
			prefix = "✓ "
		}
		text := prefix + highlight(styles.Truncate(label, width-2), matched)

		switch {
		case i == p.cursor:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(styles.Pad(text, width)))
		case isActive:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.Accent).
				Render(styles.Pad(text, width)))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(styles.Pad(text, width)))
		}
	}

	if len(p.matches) == 0 && p.input.Value() != "" {
		lines = append(lines, styles.DimStyle.Render("  no matching tags"))
	}

	return styles.ModalStyle.Render(styles.ModalTitleStyle.Render("Tag") + "\n" + strings.Join(lines, "\n"))
}

// highlight renders the matched character positions of s in the accent color
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if set[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
