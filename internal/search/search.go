// Package search offers forgiving matching around the catalog's strict
// filter: "did you mean" titles when a search finds nothing, and fuzzy
// narrowing of the tag picker.
package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/albumshelf/internal/domain"
)

// Suggestion is a title that loosely matches a query.
type Suggestion struct {
	Album *domain.Album
	Score int // Lower is better
}

// Suggest ranks albums whose titles loosely match query: case-insensitive
// substrings, subsequences, and words within a small edit distance.
// At most limit suggestions are returned; limit <= 0 means no limit.
func Suggest(query string, albums []*domain.Album, limit int) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(albums) == 0 {
		return nil
	}

	titles := make([]string, 0, len(albums))
	byTitle := make(map[string][]*domain.Album, len(albums))
	for _, a := range albums {
		if a.Malformed() {
			continue
		}
		key := strings.ToLower(a.Title)
		if _, seen := byTitle[key]; !seen {
			titles = append(titles, key)
		}
		byTitle[key] = append(byTitle[key], a)
	}

	// Subsequence matches, ranked by the library's edit distance
	subseq := make(map[string]int)
	for _, r := range fuzzy.RankFindFold(query, titles) {
		subseq[r.Target] = r.Distance
	}

	var out []Suggestion
	for _, title := range titles {
		score, ok := calculateMatchScore(title, query, subseq)
		if !ok {
			continue
		}
		for _, a := range byTitle[title] {
			out = append(out, Suggestion{Album: a, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return len(out[i].Album.Title) < len(out[j].Album.Title)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// calculateMatchScore scores a lowercase title against a lowercase query.
func calculateMatchScore(title, query string, subseq map[string]int) (int, bool) {
	if title == query {
		return 0, true
	}
	if strings.HasPrefix(title, query) {
		return 10, true
	}
	if strings.Contains(title, query) {
		return 50, true
	}
	if d, ok := subseq[title]; ok {
		return 75 + d, true
	}

	// Typo tolerance: every query word must be close to some title word
	words := strings.Fields(title)
	total := 0
	for _, q := range strings.Fields(query) {
		best := -1
		for _, w := range words {
			d := fuzzy.LevenshteinDistance(q, w)
			if best < 0 || d < best {
				best = d
			}
		}
		if best < 0 || best > allowedTypos(len([]rune(q))) {
			return 0, false
		}
		total += best
	}
	return 100 + total*20, true
}

// allowedTypos returns the number of typos allowed based on word length
func allowedTypos(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return 2
	}
}
