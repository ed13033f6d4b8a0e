package tui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/albumshelf/internal/browse"
	"github.com/mmcdole/albumshelf/internal/catalog"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/eventloop"
	"github.com/mmcdole/albumshelf/internal/route"
)

// Engine owns the browse page and hands UI input to it on the event loop.
// Methods are safe to call from the Bubble Tea goroutine.
type Engine struct {
	loop   *eventloop.Loop
	events *browse.Events
	view   *TerminalViewport
	kv     domain.KeyValueStore
	obs    *ChannelObserver
	logger *slog.Logger

	mu       sync.RWMutex
	catalogs map[domain.MediaKind]*catalog.Catalog

	page *browse.Page // Loop-owned; nil while a player is open
}

// NewEngine wires an engine to a running (or soon running) loop.
func NewEngine(loop *eventloop.Loop, kv domain.KeyValueStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		loop:     loop,
		events:   browse.NewEvents(),
		kv:       kv,
		obs:      NewChannelObserver(),
		logger:   logger,
		catalogs: make(map[domain.MediaKind]*catalog.Catalog, len(domain.Kinds)),
	}
	// A programmatic jump fires a scroll event, as a browser window does
	e.view = NewTerminalViewport(func() {
		e.obs.Poke()
		e.Emit(browse.EventScroll)
	})
	return e
}

// Viewport returns the terminal viewport the page scrolls.
func (e *Engine) Viewport() *TerminalViewport {
	return e.view
}

// Observer returns the channel the UI listens on.
func (e *Engine) Observer() *ChannelObserver {
	return e.obs
}

// Start mounts the home page.
func (e *Engine) Start() {
	e.loop.Post(e.mount)
}

// mount creates a page from storage, as returning to the home screen does.
func (e *Engine) mount() {
	if e.page != nil {
		return
	}
	e.page = browse.NewPage(browse.Deps{
		Scheduler: e.loop,
		Viewport:  e.view,
		Events:    e.events,
		Storage:   e.kv,
		Navigator: e,
		Observer:  e.obs,
		Logger:    e.logger,
	})
	e.page.Mount()

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, k := range domain.Kinds {
		if c, ok := e.catalogs[k]; ok {
			e.page.SetCatalog(k, c)
		}
	}
}

// Navigate leaves the home screen. It runs on the loop, from Page.Play.
func (e *Engine) Navigate(r route.Route) {
	if e.page != nil {
		e.page.Unmount()
		e.page = nil
	}
	e.view.Reset()
	e.obs.OnRoute(r)
}

// Back returns from the player to a freshly mounted home page.
func (e *Engine) Back() {
	e.loop.Post(e.mount)
}

// SetCatalogs delivers loaded catalogs. They may arrive after mount.
func (e *Engine) SetCatalogs(cats ...*catalog.Catalog) {
	e.mu.Lock()
	for _, c := range cats {
		if c != nil {
			e.catalogs[c.Kind()] = c
		}
	}
	e.mu.Unlock()

	e.withPage(func(p *browse.Page) {
		for _, c := range cats {
			if c != nil {
				p.SetCatalog(c.Kind(), c)
			}
		}
	})
}

// Catalog returns the loaded catalog for kind, or nil.
func (e *Engine) Catalog(kind domain.MediaKind) *catalog.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalogs[kind]
}

// Emit reports a window event to the page.
func (e *Engine) Emit(kind browse.EventKind) {
	e.loop.Post(func() { e.events.Emit(kind) })
}

func (e *Engine) SetTab(kind domain.MediaKind) {
	e.withPage(func(p *browse.Page) { p.SetTab(kind) })
}

func (e *Engine) SetSearch(query string) {
	e.withPage(func(p *browse.Page) { p.SetSearch(query) })
}

func (e *Engine) SetTag(tag string) {
	e.withPage(func(p *browse.Page) { p.SetTag(tag) })
}

// Play opens the player for an album on the active tab.
func (e *Engine) Play(albumID string) {
	e.withPage(func(p *browse.Page) {
		if _, err := p.Play(albumID); err != nil {
			e.logger.Warn("cannot play album", "album_id", albumID, "error", err)
		}
	})
}

// Shutdown fires the unload event, unmounts the page (saving the session),
// and stops the loop.
func (e *Engine) Shutdown(ctx context.Context) {
	ok := e.loop.Do(ctx, func() {
		e.events.Emit(browse.EventBeforeUnload)
		if e.page != nil {
			e.page.Unmount()
			e.page = nil
		}
	})
	if !ok {
		e.logger.Warn("shutdown did not complete on the event loop")
	}
	e.loop.Close()
}

func (e *Engine) withPage(f func(*browse.Page)) {
	e.loop.Post(func() {
		if e.page != nil {
			f(e.page)
		}
	})
}
