// Package browse is the catalog browsing engine: filtering, pagination,
// infinite scroll, and session persistence with scroll restoration.
//
// Everything in this package runs on a single event loop (domain.Scheduler)
// and is not safe for concurrent use.
package browse

import (
	"strings"

	"github.com/mmcdole/albumshelf/internal/domain"
)

// Filter returns the albums matching query and tag, in catalog order.
//
// An album matches when query is empty or a case-sensitive substring of its
// title, description, or any single tag, and tag is empty or exactly one of
// its tags. Malformed albums never match.
func Filter(albums []*domain.Album, query, tag string) []*domain.Album {
	out := make([]*domain.Album, 0, len(albums))
	for _, a := range albums {
		if a.Malformed() {
			continue
		}
		if matchesQuery(a, query) && (tag == "" || a.HasTag(tag)) {
			out = append(out, a)
		}
	}
	return out
}

func matchesQuery(a *domain.Album, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(a.Title, query) || strings.Contains(a.Description, query) {
		return true
	}
	for _, t := range a.Tags {
		if strings.Contains(t, query) {
			return true
		}
	}
	return false
}

// FilterMemo caches the last Filter result. Identical inputs (same catalog
// slice, query, and tag) return the identical slice, so downstream consumers
// can skip work by identity.
type FilterMemo struct {
	albums []*domain.Album
	query  string
	tag    string
	result []*domain.Album
	valid  bool

	recomputes int
}

// Filter returns the memoized result for the inputs.
func (m *FilterMemo) Filter(albums []*domain.Album, query, tag string) []*domain.Album {
	if m.valid && sameSlice(m.albums, albums) && m.query == query && m.tag == tag {
		return m.result
	}
	m.albums, m.query, m.tag = albums, query, tag
	m.result = Filter(albums, query, tag)
	m.valid = true
	m.recomputes++
	return m.result
}

// Recomputes reports how many times the filter actually ran.
func (m *FilterMemo) Recomputes() int {
	return m.recomputes
}

// sameSlice reports whether a and b are the same slice (same backing array
// and length), which is how catalogs are compared: they never mutate.
func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
