package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// TagMatch is a tag that survived the picker's filter.
type TagMatch struct {
	Tag            string
	Index          int   // Position in the source list
	MatchedIndexes []int // Matched character positions, for highlighting
}

// MatchTags narrows tags to those fuzzily matching query, best first.
// An empty query keeps every tag in source order.
func MatchTags(query string, tags []string) []TagMatch {
	if strings.TrimSpace(query) == "" {
		out := make([]TagMatch, len(tags))
		for i, t := range tags {
			out[i] = TagMatch{Tag: t, Index: i}
		}
		return out
	}

	lowerTags := make([]string, len(tags))
	for i, t := range tags {
		lowerTags[i] = strings.ToLower(t)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTags)

	out := make([]TagMatch, len(matches))
	for i, m := range matches {
		out[i] = TagMatch{Tag: tags[m.Index], Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return out
}
