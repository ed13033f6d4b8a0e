package browse

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/albumshelf/internal/catalog"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/eventloop"
	"github.com/mmcdole/albumshelf/internal/route"
	"github.com/mmcdole/albumshelf/internal/store"
)

var quietLogger = slog.New(slog.DiscardHandler)

// fakeViewport is a window whose geometry tests set directly.
type fakeViewport struct {
	y, inner, doc float64
	jumps         []float64
}

func (v *fakeViewport) ScrollY() float64        { return v.y }
func (v *fakeViewport) InnerHeight() float64    { return v.inner }
func (v *fakeViewport) DocumentHeight() float64 { return v.doc }
func (v *fakeViewport) ScrollTo(y float64) {
	v.y = y
	v.jumps = append(v.jumps, y)
}

// nearBottom puts the viewport within the load threshold.
func (v *fakeViewport) nearBottom() {
	v.y = v.doc - v.inner - ScrollThreshold/2
}

// failingKV errors on every call.
type failingKV struct{}

var errBroken = errors.New("storage unavailable")

func (failingKV) Get(string) (string, bool, error) { return "", false, errBroken }
func (failingKV) Set(string, string) error         { return errBroken }
func (failingKV) Delete(string) error              { return errBroken }

type recordingObserver struct {
	snaps []Snapshot
}

func (o *recordingObserver) OnChange(s Snapshot) { o.snaps = append(o.snaps, s) }

func (o *recordingObserver) last() Snapshot {
	if len(o.snaps) == 0 {
		return Snapshot{}
	}
	return o.snaps[len(o.snaps)-1]
}

type recordingNavigator struct {
	routes []route.Route
}

func (n *recordingNavigator) Navigate(r route.Route) { n.routes = append(n.routes, r) }

// harness wires a Page to a fake clock so every timer is deterministic.
type harness struct {
	clock  *clockwork.FakeClock
	loop   *eventloop.Loop
	view   *fakeViewport
	events *Events
	kv     domain.KeyValueStore
	obs    *recordingObserver
	nav    *recordingNavigator
	page   *Page
}

func newHarness(t *testing.T, kv domain.KeyValueStore) *harness {
	t.Helper()
	if kv == nil {
		kv = store.NewMemoryStore()
	}
	clock := clockwork.NewFakeClock()
	h := &harness{
		clock:  clock,
		loop:   eventloop.New(clock, quietLogger),
		view:   &fakeViewport{inner: 800, doc: 800},
		events: NewEvents(),
		kv:     kv,
		obs:    &recordingObserver{},
		nav:    &recordingNavigator{},
	}
	h.page = h.newPage()
	return h
}

// newPage builds a fresh page over the harness's storage, as a remount does.
func (h *harness) newPage() *Page {
	return NewPage(Deps{
		Scheduler: h.loop,
		Viewport:  h.view,
		Events:    h.events,
		Storage:   h.kv,
		Navigator: h.nav,
		Observer:  h.obs,
		Logger:    quietLogger,
	})
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.loop.Flush()
}

func (h *harness) scroll() {
	h.events.Emit(EventScroll)
	h.loop.Flush()
}

func (h *harness) pendingTimers() int {
	_, timers := h.loop.Pending()
	return timers
}

func makeAlbums(kind domain.MediaKind, n int, tags ...string) []*domain.Album {
	out := make([]*domain.Album, n)
	for i := range out {
		out[i] = &domain.Album{
			ID:           fmt.Sprintf("%s-%d", kind, i),
			Title:        fmt.Sprintf("Album %d", i),
			Description:  "desc",
			Tags:         tags,
			EpisodeCount: 10,
			Kind:         kind,
		}
	}
	return out
}

func makeCatalog(kind domain.MediaKind, n int, tags ...string) *catalog.Catalog {
	return catalog.New(kind, makeAlbums(kind, n, tags...))
}
