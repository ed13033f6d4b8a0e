package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/albumshelf/internal/browse"
	"github.com/mmcdole/albumshelf/internal/catalog"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/route"
	"github.com/mmcdole/albumshelf/internal/search"
	"github.com/mmcdole/albumshelf/internal/tui/components"
	"github.com/mmcdole/albumshelf/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StatePickingTag
	StatePlaying
	StateHelp
)

const (
	// Lines scrolled per mouse wheel notch
	WheelLines = 3

	// How many "did you mean" titles an empty result offers
	MaxSuggestions = 5

	shutdownTimeout = 2 * time.Second
)

// Options configures the model
type Options struct {
	Engine    *Engine
	Loader    *catalog.Loader
	VideoPath string
	AudioPath string
	RowHeight int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	engine    *Engine
	loader    *catalog.Loader
	videoPath string
	audioPath string

	// UI Components
	SearchInput textinput.Model
	TagPicker   components.TagPicker
	List        components.AlbumList

	// Engine state as last published
	snapshot    browse.Snapshot
	route       *route.Route
	suggestions []string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	Loading     bool
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "search titles, descriptions, tags"
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.CharLimit = 128

	return Model{
		State:       StateBrowsing,
		engine:      opts.Engine,
		loader:      opts.Loader,
		videoPath:   opts.VideoPath,
		audioPath:   opts.AudioPath,
		SearchInput: ti,
		TagPicker:   components.NewTagPicker(),
		List:        components.NewAlbumList(opts.RowHeight),
		snapshot:    browse.Snapshot{Tab: domain.KindVideo},
		Loading:     true,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		LoadCatalogsCmd(m.loader, m.videoPath, m.audioPath),
		listenForUpdatesCmd(m.engine.Observer()),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.FocusMsg, tea.BlurMsg:
		m.engine.Emit(browse.EventVisibilityChange)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case EngineUpdateMsg:
		m.applyUpdate(m.engine.Observer().take())
		return m, listenForUpdatesCmd(m.engine.Observer())

	case CatalogsLoadedMsg:
		m.Loading = false
		m.engine.SetCatalogs(msg.Video, msg.Audio)
		m.StatusMsg = fmt.Sprintf("Loaded %d video and %d audio albums", msg.Video.Len(), msg.Audio.Len())
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ErrMsg:
		m.Loading = false
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// applyUpdate folds the engine's latest state into the model
func (m *Model) applyUpdate(u update) {
	if u.location != "" {
		m.openPlayer(u.location)
	}

	if u.snapshot != nil {
		prevTab := m.snapshot.Tab
		m.snapshot = *u.snapshot
		m.List.SetAlbums(m.snapshot.Albums, m.snapshot.HasMore)
		if m.snapshot.Tab != prevTab {
			m.List.SetCursor(0)
		}
		if !m.SearchInput.Focused() {
			m.SearchInput.SetValue(m.snapshot.Search)
		}
		m.suggestions = m.suggest()

		view := m.engine.Viewport()
		if view.SetDocumentLines(m.List.DocumentLines()) {
			m.engine.Emit(browse.EventScroll)
		}
	}

	view := m.engine.Viewport()
	m.List.ClampCursorTo(view.Offset(), view.Height())
}

// openPlayer switches to the player for location. A location the player
// cannot read sends the user straight back to the home screen.
func (m *Model) openPlayer(location string) {
	r, err := route.Parse(location)
	if err != nil {
		m.StatusMsg = fmt.Sprintf("Cannot open player: %v", err)
		m.StatusIsErr = true
		m.route = nil
		m.State = StateBrowsing
		m.engine.Back()
		return
	}
	m.route = &r
	m.State = StatePlaying
	m.TagPicker.Hide()
	m.SearchInput.Blur()
}

// suggest offers near-miss titles when a search finds nothing
func (m Model) suggest() []string {
	if m.snapshot.Filtered > 0 || m.snapshot.Search == "" {
		return nil
	}
	c := m.engine.Catalog(m.snapshot.Tab)
	if c == nil {
		return nil
	}
	found := search.Suggest(m.snapshot.Search, c.Albums(), MaxSuggestions)
	titles := make([]string, len(found))
	for i, s := range found {
		titles[i] = s.Album.Title
	}
	return titles
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.State != StateBrowsing || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-WheelLines)
	case tea.MouseButtonWheelDown:
		m.scrollBy(WheelLines)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.State {
	case StateSearching:
		return m.handleSearchKey(msg)
	case StatePickingTag:
		return m.handleTagPickerKey(msg)
	case StatePlaying:
		return m.handlePlayerKey(msg)
	case StateHelp:
		m.State = StateBrowsing
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp

	case key.Matches(msg, Keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, Keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, Keys.HalfDown):
		m.scrollBy(m.engine.Viewport().Height() / 2)
	case key.Matches(msg, Keys.HalfUp):
		m.scrollBy(-m.engine.Viewport().Height() / 2)
	case key.Matches(msg, Keys.PageDown):
		m.scrollBy(m.engine.Viewport().Height())
	case key.Matches(msg, Keys.PageUp):
		m.scrollBy(-m.engine.Viewport().Height())
	case key.Matches(msg, Keys.Home):
		m.moveCursor(-m.List.Len())
	case key.Matches(msg, Keys.End):
		m.moveCursor(m.List.Len())

	case key.Matches(msg, Keys.NextTab):
		m.engine.SetTab(m.snapshot.Tab.Other())
	case key.Matches(msg, Keys.VideoTab):
		m.engine.SetTab(domain.KindVideo)
	case key.Matches(msg, Keys.AudioTab):
		m.engine.SetTab(domain.KindAudio)

	case key.Matches(msg, Keys.Search):
		m.State = StateSearching
		return m, m.SearchInput.Focus()

	case key.Matches(msg, Keys.TagPicker):
		m.TagPicker.SetHeight(m.contentHeight() - 6)
		m.TagPicker.Show(m.snapshot.Tags, m.snapshot.Tag)
		m.State = StatePickingTag

	case key.Matches(msg, Keys.Play):
		if a := m.List.Selected(); a != nil {
			m.engine.Play(a.ID)
		}

	case key.Matches(msg, Keys.Escape):
		// Peel filters one at a time: search first, then the tag
		if m.snapshot.Search != "" {
			m.SearchInput.SetValue("")
			m.engine.SetSearch("")
		} else if m.snapshot.Tag != "" {
			m.engine.SetTag("")
		}
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "down", "tab":
		m.SearchInput.Blur()
		m.State = StateBrowsing
		return m, nil
	}

	before := m.SearchInput.Value()
	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if v := m.SearchInput.Value(); v != before {
		m.engine.SetSearch(v)
	}
	return m, cmd
}

func (m Model) handleTagPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, sel := m.TagPicker.Update(msg)
	if sel != nil {
		m.engine.SetTag(sel.Tag)
	}
	if !m.TagPicker.IsVisible() {
		m.State = StateBrowsing
	}
	return m, cmd
}

func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()
	case key.Matches(msg, Keys.Back):
		m.route = nil
		m.State = StateBrowsing
		m.engine.Back()
	}
	return m, nil
}

// moveCursor moves the selection and scrolls just enough to keep it visible
func (m *Model) moveCursor(delta int) {
	m.List.MoveCursor(delta)
	top, bottom := m.List.CursorSpan()
	if m.engine.Viewport().Reveal(top, bottom) {
		m.engine.Emit(browse.EventScroll)
	}
}

// scrollBy scrolls the viewport and drags the selection along
func (m *Model) scrollBy(lines int) {
	view := m.engine.Viewport()
	if lines == 0 || !view.ScrollBy(lines) {
		return
	}
	m.List.ClampCursorTo(view.Offset(), view.Height())
	m.engine.Emit(browse.EventScroll)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	m.engine.Shutdown(ctx)
	return m, tea.Quit
}
