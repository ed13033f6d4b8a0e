package browse

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/albumshelf/internal/catalog"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/route"
)

// SaveDebounce is how long scrolling must pause before the session is saved.
const SaveDebounce = 100 * time.Millisecond

// Snapshot is the renderable state of the page.
type Snapshot struct {
	Tab       domain.MediaKind
	Search    string
	Tag       string
	Tags      []string
	Albums    []*domain.Album
	Filtered  int
	Total     int
	Page      int
	HasMore   bool
	Restoring bool
}

// Observer is notified after every state change.
type Observer interface {
	OnChange(Snapshot)
}

// NoOpObserver ignores all changes.
type NoOpObserver struct{}

func (NoOpObserver) OnChange(Snapshot) {}

// Navigator leaves the home screen for a player.
type Navigator interface {
	Navigate(route.Route)
}

// Deps are the collaborators a Page needs. Scheduler, Viewport, Events and
// Storage are required.
type Deps struct {
	Scheduler domain.Scheduler
	Viewport  domain.Viewport
	Events    *Events
	Storage   domain.KeyValueStore
	Navigator Navigator
	Observer  Observer
	Logger    *slog.Logger
}

// feed is one tab's catalog with its memoized derivations.
type feed struct {
	catalog *catalog.Catalog
	filter  FilterMemo
	window  PageWindow
}

// Page is the home screen: two catalogs browsed through one session.
type Page struct {
	sched    domain.Scheduler
	view     domain.Viewport
	events   *Events
	store    *SessionStore
	nav      Navigator
	observer Observer
	logger   *slog.Logger

	session domain.BrowseSession
	feeds   map[domain.MediaKind]*feed

	scroll   *InfiniteScroll
	restorer *Restorer

	saveTimer domain.Timer
	topTimer  domain.Timer
	offs      []func()
	mounted   bool
	unmounted bool
}

// NewPage creates a page from the persisted session, or defaults when none
// is stored. Restoration is armed only when the saved offset is positive.
func NewPage(d Deps) *Page {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := d.Observer
	if observer == nil {
		observer = NoOpObserver{}
	}

	p := &Page{
		sched:    d.Scheduler,
		view:     d.Viewport,
		events:   d.Events,
		store:    NewSessionStore(d.Storage, logger),
		nav:      d.Navigator,
		observer: observer,
		logger:   logger,
		feeds:    make(map[domain.MediaKind]*feed, len(domain.Kinds)),
	}
	for _, k := range domain.Kinds {
		p.feeds[k] = &feed{catalog: catalog.Empty(k)}
	}

	if saved := p.store.Load(); saved != nil {
		p.session = *saved
		p.session.IsRestoring = saved.ScrollY > 0
	} else {
		p.session = domain.DefaultSession()
	}

	p.scroll = NewInfiniteScroll(p.sched, p.view, p)
	p.restorer = NewRestorer(p.sched, p.view, p.session.ScrollY, p.hasContent, p.restored)

	logger.Debug("page created",
		"tab", p.session.ActiveTab,
		"scroll_y", p.session.ScrollY,
		"restoring", p.session.IsRestoring)
	return p
}

// Mount starts listening to window events and, if needed, restoration.
func (p *Page) Mount() {
	if p.mounted {
		return
	}
	p.mounted = true

	p.offs = append(p.offs,
		p.events.On(EventScroll, p.scheduleSave),
		p.events.On(EventVisibilityChange, p.save),
		p.events.On(EventBeforeUnload, p.save),
	)
	p.scroll.Attach(p.events)

	if p.session.IsRestoring {
		p.restorer.Start()
	}
	p.notify()
}

// Unmount saves the session and tears everything down. Nothing scheduled by
// the page runs afterward.
func (p *Page) Unmount() {
	if !p.mounted || p.unmounted {
		return
	}
	p.unmounted = true

	p.save()

	for _, off := range p.offs {
		off()
	}
	p.offs = nil
	p.scroll.Detach()
	p.restorer.Stop()
	stopTimer(&p.saveTimer)
	stopTimer(&p.topTimer)

	p.logger.Debug("page unmounted", "scroll_y", p.session.ScrollY)
}

// Mounted reports whether the page is live.
func (p *Page) Mounted() bool {
	return p.mounted && !p.unmounted
}

// SetCatalog delivers the catalog for kind. It may arrive after mount.
func (p *Page) SetCatalog(kind domain.MediaKind, c *catalog.Catalog) {
	f, ok := p.feeds[kind]
	if !ok {
		return
	}
	if c == nil {
		c = catalog.Empty(kind)
	}
	f.catalog = c
	p.notify()
}

// SetTab switches the active tab. Search and tags are left alone.
func (p *Page) SetTab(kind domain.MediaKind) {
	if _, ok := p.feeds[kind]; !ok || kind == p.session.ActiveTab {
		return
	}
	p.session.ActiveTab = kind
	p.notify()
}

// SetSearch replaces the shared search text and restarts pagination.
func (p *Page) SetSearch(query string) {
	if query == p.session.Search {
		return
	}
	p.session.Search = query
	p.session.ResetPages()
	p.notify()
}

// SetTag sets the active tab's tag, restarts pagination, and scrolls to the
// top on the next task. An empty tag clears the filter.
func (p *Page) SetTag(tag string) {
	tab := p.session.ActiveTab
	if tag == p.session.TagByTab[tab] {
		return
	}
	p.session.TagByTab[tab] = tag
	p.session.ResetPages()

	stopTimer(&p.topTimer)
	p.topTimer = p.sched.AfterFunc(0, func() {
		p.topTimer = nil
		p.view.ScrollTo(0)
	})
	p.notify()
}

// AdvancePage exposes one more page on the active tab. It refuses when the
// filtered set is already fully visible.
func (p *Page) AdvancePage() bool {
	tab := p.session.ActiveTab
	page := p.session.Page(tab)
	if !CanAdvance(page, len(p.filtered(tab))) {
		return false
	}
	p.session.PageByTab[tab] = page + 1
	p.notify()
	return true
}

// Session returns a copy of the current session.
func (p *Page) Session() domain.BrowseSession {
	return p.session.Clone()
}

// Restoring reports whether a saved scroll offset is still pending.
func (p *Page) Restoring() bool {
	return p.session.IsRestoring
}

// ScrollState exposes the infinite-scroll controller's state.
func (p *Page) ScrollState() ScrollState {
	return p.scroll.State()
}

// Filtered returns the filtered albums for kind.
func (p *Page) Filtered(kind domain.MediaKind) []*domain.Album {
	return p.filtered(kind)
}

// Paged returns the visible prefix for kind.
func (p *Page) Paged(kind domain.MediaKind) []*domain.Album {
	f, ok := p.feeds[kind]
	if !ok {
		return nil
	}
	return f.window.Slice(p.filtered(kind), p.session.Page(kind))
}

// Snapshot returns the renderable state of the active tab.
func (p *Page) Snapshot() Snapshot {
	tab := p.session.ActiveTab
	f := p.feeds[tab]
	filtered := p.filtered(tab)
	paged := p.Paged(tab)

	return Snapshot{
		Tab:       tab,
		Search:    p.session.Search,
		Tag:       p.session.TagByTab[tab],
		Tags:      f.catalog.Tags(),
		Albums:    paged,
		Filtered:  len(filtered),
		Total:     f.catalog.Len(),
		Page:      p.session.Page(tab),
		HasMore:   HasMore(paged, filtered),
		Restoring: p.session.IsRestoring,
	}
}

// Catalog returns the catalog loaded for kind.
func (p *Page) Catalog(kind domain.MediaKind) *catalog.Catalog {
	if f, ok := p.feeds[kind]; ok {
		return f.catalog
	}
	return nil
}

// Play opens the player for an album on the active tab.
func (p *Page) Play(albumID string) (route.Route, error) {
	tab := p.session.ActiveTab
	album, err := p.feeds[tab].catalog.Find(albumID)
	if err != nil {
		return route.Route{}, fmt.Errorf("play: %w", err)
	}

	r := route.ForAlbum(tab, album.ID)
	p.logger.Info("opening player", "route", r.String(), "title", album.Title)
	if p.nav != nil {
		p.nav.Navigate(r)
	}
	return r, nil
}

func (p *Page) filtered(kind domain.MediaKind) []*domain.Album {
	f, ok := p.feeds[kind]
	if !ok {
		return nil
	}
	c := p.session.Criteria(kind)
	return f.filter.Filter(f.catalog.Albums(), c.Query, c.Tag)
}

func (p *Page) hasContent() bool {
	for _, f := range p.feeds {
		if f.catalog.Len() > 0 {
			return true
		}
	}
	return false
}

func (p *Page) restored() {
	p.session.IsRestoring = false
	p.logger.Debug("scroll restored", "scroll_y", p.session.ScrollY)
	p.notify()
}

func (p *Page) scheduleSave() {
	stopTimer(&p.saveTimer)
	p.saveTimer = p.sched.AfterFunc(SaveDebounce, func() {
		p.saveTimer = nil
		p.save()
	})
}

// save records the viewport's current offset and persists the session.
func (p *Page) save() {
	p.session.ScrollY = p.view.ScrollY()
	p.store.Save(p.session)
}

func (p *Page) notify() {
	if p.unmounted {
		return
	}
	p.observer.OnChange(p.Snapshot())
}

func stopTimer(t *domain.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
