package browse

import (
	"testing"
	"time"

	"github.com/mmcdole/albumshelf/internal/catalog"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/eventloop"
	"github.com/mmcdole/albumshelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage_Defaults(t *testing.T) {
	h := newHarness(t, nil)

	sess := h.page.Session()
	assert.True(t, domain.DefaultSession().Equal(sess))
	assert.False(t, h.page.Restoring())

	snap := h.page.Snapshot()
	assert.Equal(t, domain.KindVideo, snap.Tab)
	assert.Empty(t, snap.Albums)
	assert.False(t, snap.HasMore)
	assert.Equal(t, 1, snap.Page)
}

func TestNewPage_UnreadableStorageUsesDefaults(t *testing.T) {
	h := newHarness(t, failingKV{})
	h.page.Mount()
	h.view.y = 300
	assert.NotPanics(t, h.page.Unmount)
	assert.Equal(t, domain.KindVideo, h.page.Session().ActiveTab)
	assert.Equal(t, 300.0, h.page.Session().ScrollY)
}

func TestNewPage_CorruptPageCounterDoesNotCrash(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey, `{"videoPage":200000000000000000}`))

	h := newHarness(t, kv)
	h.page.Mount()
	require.NotPanics(t, func() {
		h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 3))
	})

	snap := h.page.Snapshot()
	assert.Equal(t, 1, snap.Page)
	assert.Len(t, snap.Albums, 3)
	assert.False(t, snap.HasMore)
}

func TestPage_InfiniteScrollGrowsActiveTab(t *testing.T) {
	h := newHarness(t, nil)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 120))
	h.page.SetCatalog(domain.KindAudio, makeCatalog(domain.KindAudio, 120))
	h.page.Mount()

	h.view.doc = 5000
	h.view.nearBottom()
	for range 10 {
		h.scroll()
	}
	assert.Equal(t, 2, h.page.Session().Page(domain.KindVideo))
	assert.Equal(t, 1, h.page.Session().Page(domain.KindAudio))
	assert.Len(t, h.page.Snapshot().Albums, 100)

	h.advance(Cooldown)
	h.scroll()
	snap := h.page.Snapshot()
	assert.Equal(t, 3, snap.Page)
	assert.Len(t, snap.Albums, 120)
	assert.False(t, snap.HasMore)

	// Fully visible: the counter stops.
	h.advance(Cooldown)
	h.scroll()
	assert.Equal(t, 3, h.page.Session().Page(domain.KindVideo))
}

func TestPage_FilterChangesResetBothPages(t *testing.T) {
	h := newHarness(t, nil)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 200, "Drama"))
	h.page.SetCatalog(domain.KindAudio, makeCatalog(domain.KindAudio, 200))

	bump := func() {
		h.page.AdvancePage()
		h.page.SetTab(domain.KindAudio)
		h.page.AdvancePage()
		h.page.AdvancePage()
		h.page.SetTab(domain.KindVideo)
	}

	bump()
	require.Equal(t, 2, h.page.Session().Page(domain.KindVideo))
	require.Equal(t, 3, h.page.Session().Page(domain.KindAudio))

	h.page.SetSearch("Album")
	assert.Equal(t, 1, h.page.Session().Page(domain.KindVideo))
	assert.Equal(t, 1, h.page.Session().Page(domain.KindAudio))

	bump()
	h.page.SetTag("Drama")
	assert.Equal(t, 1, h.page.Session().Page(domain.KindVideo))
	assert.Equal(t, 1, h.page.Session().Page(domain.KindAudio))

	bump()
	h.page.SetSearch("Album")
	assert.Equal(t, 2, h.page.Session().Page(domain.KindVideo), "unchanged search keeps pages")

	h.page.SetTab(domain.KindAudio)
	assert.Equal(t, 3, h.page.Session().Page(domain.KindAudio), "tab switch keeps pages")
}

func TestPage_TagIsPerTabSearchIsShared(t *testing.T) {
	h := newHarness(t, nil)
	h.page.SetCatalog(domain.KindVideo, catalog.New(domain.KindVideo, []*domain.Album{
		{ID: "v1", Title: "Space", Tags: []string{"SciFi"}, EpisodeCount: 1},
		{ID: "v2", Title: "Sea", Tags: []string{"Nature"}, EpisodeCount: 1},
	}))
	h.page.SetCatalog(domain.KindAudio, catalog.New(domain.KindAudio, []*domain.Album{
		{ID: "a1", Title: "Space talk", Tags: []string{"Talk"}, EpisodeCount: 1},
	}))

	h.page.SetSearch("Spa")
	h.page.SetTag("SciFi")
	assert.Equal(t, []string{"v1"}, ids(h.page.Snapshot().Albums))

	h.page.SetTab(domain.KindAudio)
	snap := h.page.Snapshot()
	assert.Equal(t, "Spa", snap.Search)
	assert.Empty(t, snap.Tag)
	assert.Equal(t, []string{"Talk"}, snap.Tags)
	assert.Equal(t, []string{"a1"}, ids(snap.Albums))
	assert.Equal(t, 1, snap.Total)
}

func TestPage_TagChangeScrollsToTopOnNextTask(t *testing.T) {
	h := newHarness(t, nil)
	h.page.Mount()
	h.view.y = 900

	h.page.SetTag("Drama")
	assert.Empty(t, h.view.jumps)
	h.loop.Flush()
	assert.Equal(t, []float64{0}, h.view.jumps)

	h.page.SetSearch("x")
	h.loop.Flush()
	assert.Len(t, h.view.jumps, 1, "search does not scroll")
}

func TestPage_ScrollSaveIsDebounced(t *testing.T) {
	kv := store.NewMemoryStore()
	h := newHarness(t, kv)
	h.page.Mount()

	for i := range 3 {
		h.view.y = float64(100 * (i + 1))
		h.scroll()
		h.advance(SaveDebounce / 2)
	}
	_, ok, _ := kv.Get(StorageKey)
	assert.False(t, ok, "still scrolling")

	h.advance(SaveDebounce / 2)
	got := NewSessionStore(kv, quietLogger).Load()
	require.NotNil(t, got)
	assert.Equal(t, 300.0, got.ScrollY)
}

func TestPage_VisibilityAndUnloadSaveImmediately(t *testing.T) {
	for _, kind := range []EventKind{EventVisibilityChange, EventBeforeUnload} {
		t.Run(kind.String(), func(t *testing.T) {
			kv := store.NewMemoryStore()
			h := newHarness(t, kv)
			h.page.Mount()
			h.view.y = 640

			h.events.Emit(kind)
			got := NewSessionStore(kv, quietLogger).Load()
			require.NotNil(t, got)
			assert.Equal(t, 640.0, got.ScrollY)
		})
	}
}

func TestPage_PersistRoundTrip(t *testing.T) {
	kv := store.NewMemoryStore()
	h := newHarness(t, kv)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 200))
	h.page.SetCatalog(domain.KindAudio, makeCatalog(domain.KindAudio, 200, "Jazz"))
	h.page.Mount()

	h.page.SetSearch("Album")
	h.page.SetTab(domain.KindAudio)
	h.page.SetTag("Jazz")
	h.page.AdvancePage()
	h.view.y = 2750
	h.page.Unmount()
	want := h.page.Session()

	next := h.newPage()
	got := next.Session()
	assert.True(t, want.Equal(got), "want %+v, got %+v", want, got)
	assert.True(t, next.Restoring())
}

func TestPage_Restoration(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey, `{"scrollY":4200,"tab":"audio","audioPage":2}`))

	h := newHarness(t, kv)
	require.True(t, h.page.Restoring())
	h.page.Mount()
	assert.True(t, h.obs.last().Restoring)

	// No content yet: poll every frame, never jump.
	for range 30 {
		h.advance(eventloop.FrameInterval)
	}
	assert.Empty(t, h.view.jumps)
	assert.True(t, h.page.Restoring())

	// Content on either tab counts.
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 1))
	h.advance(eventloop.FrameInterval)
	h.advance(SettleDelay - time.Millisecond)
	assert.Empty(t, h.view.jumps)

	h.advance(time.Millisecond)
	assert.Equal(t, []float64{4200}, h.view.jumps)
	assert.False(t, h.page.Restoring())
	assert.False(t, h.obs.last().Restoring)

	h.advance(time.Second)
	assert.Len(t, h.view.jumps, 1, "exactly one jump")
	assert.Equal(t, 2, h.page.Session().Page(domain.KindAudio))
}

func TestPage_NoRestorationAtTop(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey, `{"scrollY":0,"tab":"audio"}`))

	h := newHarness(t, kv)
	assert.False(t, h.page.Restoring())
	h.page.Mount()
	h.page.SetCatalog(domain.KindAudio, makeCatalog(domain.KindAudio, 3))
	h.advance(time.Second)
	assert.Empty(t, h.view.jumps)
	assert.Equal(t, domain.KindAudio, h.page.Snapshot().Tab)
}

func TestPage_UnmountTearsEverythingDown(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey, `{"scrollY":500}`))

	h := newHarness(t, kv)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 0))
	h.page.Mount()
	require.Positive(t, h.events.Count())

	h.view.doc = 900
	h.view.nearBottom()
	h.scroll()         // debounce and cool-down armed
	h.page.SetTag("x") // scroll-to-top armed
	require.Positive(t, h.pendingTimers())

	h.view.y = 77
	h.page.Unmount()
	h.page.Unmount()

	assert.Equal(t, 0, h.events.Count())
	assert.Equal(t, 0, h.pendingTimers())
	assert.False(t, h.page.Mounted())

	notified := len(h.obs.snaps)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 5))
	h.advance(10 * time.Second)
	h.events.Emit(EventScroll)
	assert.Empty(t, h.view.jumps)
	assert.Len(t, h.obs.snaps, notified)

	got := NewSessionStore(kv, quietLogger).Load()
	require.NotNil(t, got)
	assert.Equal(t, 77.0, got.ScrollY)
	assert.Equal(t, "x", got.TagByTab[domain.KindVideo])
}

func TestPage_MountTwiceIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.page.Mount()
	n := h.events.Count()
	h.page.Mount()
	assert.Equal(t, n, h.events.Count())
}

func TestPage_Play(t *testing.T) {
	h := newHarness(t, nil)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 3))
	h.page.SetCatalog(domain.KindAudio, makeCatalog(domain.KindAudio, 3))

	r, err := h.page.Play("video-1")
	require.NoError(t, err)
	assert.Equal(t, "/play?album=video-1&ep=0", r.String())

	h.page.SetTab(domain.KindAudio)
	r, err = h.page.Play("audio-2")
	require.NoError(t, err)
	assert.Equal(t, "/audio_play?album=audio-2&ep=0", r.String())
	assert.Len(t, h.nav.routes, 2)

	_, err = h.page.Play("video-1")
	assert.ErrorIs(t, err, domain.ErrAlbumNotFound, "only the active tab is searched")
	assert.Len(t, h.nav.routes, 2)
}

func TestPage_ObserverSeesEveryChange(t *testing.T) {
	h := newHarness(t, nil)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 80))
	h.page.SetSearch("Album 1")
	h.page.SetTab(domain.KindAudio)
	h.page.SetTab(domain.KindAudio) // no change

	require.Len(t, h.obs.snaps, 3)
	assert.Equal(t, 80, h.obs.snaps[0].Filtered)
	assert.Equal(t, "Album 1", h.obs.snaps[1].Search)
	assert.Equal(t, domain.KindAudio, h.obs.snaps[2].Tab)
}

func TestPage_FilterMemoizedAcrossSnapshots(t *testing.T) {
	h := newHarness(t, nil)
	h.page.SetCatalog(domain.KindVideo, makeCatalog(domain.KindVideo, 10))

	before := h.page.feeds[domain.KindVideo].filter.Recomputes()
	for range 5 {
		h.page.Snapshot()
	}
	assert.Equal(t, before, h.page.feeds[domain.KindVideo].filter.Recomputes())
}
