// Package catalog loads, validates, and holds the read-only album catalogs.
package catalog

import (
	"fmt"

	"github.com/mmcdole/albumshelf/internal/domain"
)

// Catalog holds the validated albums of one media kind.
// It is never mutated after construction; the slices it returns are shared
// and must be treated as read-only.
type Catalog struct {
	kind   domain.MediaKind
	albums []*domain.Album
	tags   []string
}

// New builds a catalog from already-validated albums.
func New(kind domain.MediaKind, albums []*domain.Album) *Catalog {
	owned := make([]*domain.Album, len(albums))
	copy(owned, albums)
	return &Catalog{
		kind:   kind,
		albums: owned,
		tags:   ExtractTags(owned),
	}
}

// Empty returns a catalog with no albums.
func Empty(kind domain.MediaKind) *Catalog {
	return New(kind, nil)
}

// Kind returns the catalog's media kind.
func (c *Catalog) Kind() domain.MediaKind {
	return c.kind
}

// Albums returns the albums in source order. A nil catalog has none.
func (c *Catalog) Albums() []*domain.Album {
	if c == nil {
		return nil
	}
	return c.albums
}

// Len returns the number of albums. A nil catalog has none.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.albums)
}

// Tags returns the distinct tags in first-seen order.
func (c *Catalog) Tags() []string {
	if c == nil {
		return []string{}
	}
	return c.tags
}

// Find looks an album up by ID.
func (c *Catalog) Find(id string) (*domain.Album, error) {
	for _, a := range c.Albums() {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, id)
}
