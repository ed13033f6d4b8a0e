package tui

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/albumshelf/internal/browse"
	"github.com/mmcdole/albumshelf/internal/catalog"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/eventloop"
	"github.com/mmcdole/albumshelf/internal/route"
	"github.com/mmcdole/albumshelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var quietLogger = slog.New(slog.DiscardHandler)

func makeCatalog(kind domain.MediaKind, n int) *catalog.Catalog {
	albums := make([]*domain.Album, n)
	for i := range albums {
		albums[i] = &domain.Album{
			ID:           fmt.Sprintf("%s-%d", kind, i),
			Title:        fmt.Sprintf("%s album %d", kind.Label(), i),
			Tags:         []string{"Tag"},
			EpisodeCount: 4,
			Kind:         kind,
		}
	}
	return catalog.New(kind, albums)
}

// rig drives a model against an engine whose loop is flushed by hand.
type rig struct {
	t      *testing.T
	clock  *clockwork.FakeClock
	loop   *eventloop.Loop
	kv     *store.MemoryStore
	engine *Engine
	model  Model
}

func newRig(t *testing.T) *rig {
	clock := clockwork.NewFakeClock()
	loop := eventloop.New(clock, quietLogger)
	kv := store.NewMemoryStore()
	engine := NewEngine(loop, kv, quietLogger)

	r := &rig{t: t, clock: clock, loop: loop, kv: kv, engine: engine}
	r.model = NewModel(Options{Engine: engine, RowHeight: 3})

	engine.Start()
	r.send(tea.WindowSizeMsg{Width: 80, Height: 23})
	r.send(CatalogsLoadedMsg{Video: makeCatalog(domain.KindVideo, 120), Audio: makeCatalog(domain.KindAudio, 3)})

	// The initial resize found an empty document and started a cool-down
	r.advance(browse.Cooldown)
	return r
}

// send delivers msg, runs the loop, and folds any engine update back in.
func (r *rig) send(msg tea.Msg) {
	r.t.Helper()
	next, _ := r.model.Update(msg)
	r.model = next.(Model)
	r.sync()
}

func (r *rig) sync() {
	r.loop.Flush()
	next, _ := r.model.Update(EngineUpdateMsg{})
	r.model = next.(Model)
}

func (r *rig) advance(d time.Duration) {
	r.clock.Advance(d)
	r.sync()
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_ScrollingToBottomLoadsNextPage(t *testing.T) {
	r := newRig(t)
	require.Equal(t, 50, r.model.List.Len())
	assert.Equal(t, 20, r.engine.Viewport().Height())

	r.send(keyRunes("G"))
	assert.Equal(t, 100, r.model.List.Len())
	assert.Equal(t, 49, r.model.List.Cursor())
	assert.Contains(t, r.model.View(), "100 of 120 shown")
}

func TestModel_SearchFiltersAndSuggests(t *testing.T) {
	r := newRig(t)

	r.send(keyRunes("/"))
	require.Equal(t, StateSearching, r.model.State)
	for _, ch := range "album 7" {
		r.send(keyRunes(string(ch)))
	}
	// Case-sensitive: "album 7" matches the lowercase word in titles
	assert.Equal(t, 11, r.model.snapshot.Filtered) // 7 and 70-79
	r.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateBrowsing, r.model.State)

	r.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, r.model.snapshot.Search)

	r.send(keyRunes("/"))
	for _, ch := range "VIDEO ALBUM 3" {
		r.send(keyRunes(string(ch)))
	}
	assert.Zero(t, r.model.snapshot.Filtered)
	assert.NotEmpty(t, r.model.suggestions)
	assert.Contains(t, r.model.View(), "Did you mean")
}

func TestModel_TabSwitchAndTagPicker(t *testing.T) {
	r := newRig(t)

	r.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.KindAudio, r.model.snapshot.Tab)
	assert.Equal(t, 3, r.model.List.Len())

	r.send(keyRunes("t"))
	require.Equal(t, StatePickingTag, r.model.State)
	r.send(tea.KeyMsg{Type: tea.KeyDown})
	r.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateBrowsing, r.model.State)
	assert.Equal(t, "Tag", r.model.snapshot.Tag)
	assert.Equal(t, domain.KindAudio, r.model.snapshot.Tab)
}

func TestModel_PlayAndReturnRestoresPosition(t *testing.T) {
	r := newRig(t)
	r.send(keyRunes("G")) // page 2, cursor on album 49
	offset := r.engine.Viewport().Offset()
	require.Positive(t, offset)

	r.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, StatePlaying, r.model.State)
	assert.Equal(t, "/play?album=video-49&ep=0", r.model.route.String())
	assert.Contains(t, r.model.View(), "Now playing")

	saved := browse.NewSessionStore(r.kv, quietLogger).Load()
	require.NotNil(t, saved)
	assert.Equal(t, float64(offset)*LineHeight, saved.ScrollY)
	assert.Equal(t, 2, saved.Page(domain.KindVideo))

	r.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, StateBrowsing, r.model.State)
	assert.True(t, r.model.snapshot.Restoring)
	assert.Equal(t, 100, r.model.List.Len())
	assert.Zero(t, r.engine.Viewport().Offset())

	r.advance(eventloop.FrameInterval)
	r.advance(browse.SettleDelay)
	assert.Equal(t, offset, r.engine.Viewport().Offset())
	assert.False(t, r.model.snapshot.Restoring)
}

func TestModel_UnreadablePlayerLocationReturnsHome(t *testing.T) {
	r := newRig(t)

	// An album without an ID renders a location the player cannot read
	r.loop.Post(func() { r.engine.Navigate(route.ForAlbum(domain.KindVideo, "")) })
	r.sync()
	assert.Equal(t, StateBrowsing, r.model.State)
	assert.Nil(t, r.model.route)
	assert.True(t, r.model.StatusIsErr)
	assert.Contains(t, r.model.StatusMsg, "missing album")

	// Back remounted the page
	r.sync()
	assert.Equal(t, 50, r.model.List.Len())
}

func TestModel_FocusChangeSaves(t *testing.T) {
	r := newRig(t)
	r.send(keyRunes("G"))

	r.send(tea.BlurMsg{})
	saved := browse.NewSessionStore(r.kv, quietLogger).Load()
	require.NotNil(t, saved)
	assert.Positive(t, saved.ScrollY)
}

func TestEngine_ShutdownSavesAndStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	loop := eventloop.New(nil, quietLogger)
	kv := store.NewMemoryStore()
	engine := NewEngine(loop, kv, quietLogger)

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	engine.Start()
	engine.SetTab(domain.KindAudio)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	engine.Shutdown(ctx)

	require.NoError(t, <-done)
	saved := browse.NewSessionStore(kv, quietLogger).Load()
	require.NotNil(t, saved)
	assert.Equal(t, domain.KindAudio, saved.ActiveTab)
}
