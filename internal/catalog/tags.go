package catalog

import (
	"strings"

	"github.com/mmcdole/albumshelf/internal/domain"
)

// ParseTags splits a comma-separated category string into trimmed tags.
// Empty entries are dropped; order is preserved.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ExtractTags returns the distinct tags across albums in first-seen order.
// A nil or empty catalog yields an empty, non-nil slice.
func ExtractTags(albums []*domain.Album) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, a := range albums {
		if a == nil {
			continue
		}
		for _, t := range a.Tags {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}
