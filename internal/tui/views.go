package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/tui/components"
	"github.com/mmcdole/albumshelf/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StatePlaying:
		return m.renderPlayer()
	case StateHelp:
		return m.renderHelp()
	}

	content := m.renderContent()
	if m.State == StatePickingTag {
		content = lipgloss.Place(m.Width, m.contentHeight(), lipgloss.Center, lipgloss.Center, m.TagPicker.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.renderFilterLine(),
		lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(content),
		m.renderFooter(),
	)
}

// renderTabs renders the tab header with the visible/filtered counts
func (m Model) renderTabs() string {
	var tabs []string
	for _, k := range domain.Kinds {
		if k == m.snapshot.Tab {
			tabs = append(tabs, styles.ActiveTabStyle.Render(k.Label()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(k.Label()))
		}
	}
	left := strings.Join(tabs, " ")

	right := ""
	if m.snapshot.Total > 0 {
		right = styles.DimStyle.Render(fmt.Sprintf("%d of %d shown · %d total",
			len(m.snapshot.Albums), m.snapshot.Filtered, m.snapshot.Total))
	}

	gap := max(1, m.Width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderFilterLine renders the search box and the active tag
func (m Model) renderFilterLine() string {
	var searchPart string
	switch {
	case m.State == StateSearching:
		searchPart = m.SearchInput.View()
	case m.snapshot.Search != "":
		searchPart = styles.FilterPromptStyle.Render("/ ") + m.snapshot.Search
	default:
		searchPart = styles.DimStyle.Render("/ search")
	}

	tagPart := styles.DimStyle.Render("# all tags")
	if m.snapshot.Tag != "" {
		tagPart = styles.TagBadgeStyle.Render("# " + m.snapshot.Tag)
	}

	gap := max(1, m.Width-lipgloss.Width(searchPart)-lipgloss.Width(tagPart))
	return searchPart + strings.Repeat(" ", gap) + tagPart
}

// renderContent renders the album list or an empty state
func (m Model) renderContent() string {
	if m.List.Len() == 0 {
		if m.Loading && m.snapshot.Total == 0 {
			return styles.DimStyle.Render("  Loading catalogs...")
		}
		return components.EmptyView(m.snapshot.Search, m.suggestions, m.Width)
	}
	view := m.engine.Viewport()
	return m.List.View(view.Offset(), view.Height())
}

// renderFooter renders the status line or key hints
func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.SuccessStyle.Render(m.StatusMsg)
	}

	hints := []key.Binding{Keys.Search, Keys.TagPicker, Keys.NextTab, Keys.Play, Keys.Help, Keys.Quit}
	footer := renderHints(hints)
	if m.snapshot.Restoring {
		footer = styles.AccentStyle.Render("restoring position… ") + footer
	}
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(footer)
}

// renderPlayer renders the player placeholder for the routed album
func (m Model) renderPlayer() string {
	if m.route == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Now playing") + "\n\n")

	if c := m.engine.Catalog(m.route.Kind); c != nil {
		if a, err := c.Find(m.route.AlbumID); err == nil {
			b.WriteString(styles.AccentStyle.Render(a.Title) + "\n")
			b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%s · episode %d · %s",
				a.Kind.Label(), m.route.Episode+1, a.Progress())) + "\n\n")
			if a.Description != "" {
				b.WriteString(wordWrap(a.Description, min(m.Width-4, 80)) + "\n\n")
			}
		}
	}

	b.WriteString(styles.DimStyle.Render(m.route.String()) + "\n\n")
	b.WriteString(renderHints([]key.Binding{Keys.Back, Keys.Quit}))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// renderHelp renders the key binding reference
func (m Model) renderHelp() string {
	groups := [][]key.Binding{
		{Keys.Up, Keys.Down, Keys.HalfUp, Keys.HalfDown, Keys.PageUp, Keys.PageDown, Keys.Home, Keys.End},
		{Keys.NextTab, Keys.VideoTab, Keys.AudioTab, Keys.Search, Keys.TagPicker, Keys.Escape, Keys.Play},
		{Keys.Help, Keys.Quit},
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys") + "\n\n")
	for _, g := range groups {
		for _, k := range g {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				styles.HelpKeyStyle.Render(styles.Pad(h.Key, 8)),
				styles.HelpDescStyle.Render(h.Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.DimStyle.Render("press any key to close"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func renderHints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
