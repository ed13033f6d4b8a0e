package browse

import "github.com/mmcdole/albumshelf/internal/domain"

// PageSize is how many albums one page adds to the visible prefix.
const PageSize = 50

// Paginate returns the first page×PageSize albums of filtered, or all of
// them when fewer are available. Pages below 1 count as 1.
func Paginate(filtered []*domain.Album, page int) []*domain.Album {
	if page < 1 {
		page = 1
	}
	n := len(filtered)
	if page < pagesIn(n) {
		n = page * PageSize
	}
	return filtered[:n:n]
}

// HasMore reports whether the visible prefix is shorter than the filtered set.
func HasMore(paged, filtered []*domain.Album) bool {
	return len(paged) < len(filtered)
}

// CanAdvance reports whether another page would expose more albums.
func CanAdvance(page, filteredLen int) bool {
	return page < pagesIn(filteredLen)
}

// pagesIn returns how many pages cover n albums.
func pagesIn(n int) int {
	return (n + PageSize - 1) / PageSize
}

// PageWindow memoizes the visible prefix for a filtered set and page.
type PageWindow struct {
	filtered []*domain.Album
	page     int
	result   []*domain.Album
	valid    bool
}

// Slice returns the prefix, recomputing only when the inputs change.
func (w *PageWindow) Slice(filtered []*domain.Album, page int) []*domain.Album {
	if w.valid && sameSlice(w.filtered, filtered) && w.page == page {
		return w.result
	}
	w.filtered, w.page = filtered, page
	w.result = Paginate(filtered, page)
	w.valid = true
	return w.result
}
