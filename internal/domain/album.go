package domain

import "fmt"

// MediaKind distinguishes the two catalogs. They are never merged.
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
)

// Kinds lists every media kind in tab order.
var Kinds = []MediaKind{KindVideo, KindAudio}

// ParseKind converts a tab name to a MediaKind (case-sensitive).
func ParseKind(s string) (MediaKind, error) {
	switch MediaKind(s) {
	case KindVideo, KindAudio:
		return MediaKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Other returns the opposite tab.
func (k MediaKind) Other() MediaKind {
	if k == KindAudio {
		return KindVideo
	}
	return KindAudio
}

// Label returns the display name used by tab headers.
func (k MediaKind) Label() string {
	switch k {
	case KindAudio:
		return "Audio"
	default:
		return "Video"
	}
}

// UnknownEpisodes marks an album whose total episode count was never supplied.
const UnknownEpisodes = -1

// Album is one catalog entry: a playable multi-episode work.
// Albums are immutable once loaded; share pointers, never copy-and-edit.
type Album struct {
	ID             string    // Source identifier (node_object_id)
	Title          string    // Display title
	Description    string    // Free-text synopsis
	ImageURL       string    // Horizontal cover image
	Tags           []string  // Category tags, trimmed, in source order
	EpisodeCount   int       // Total episodes, UnknownEpisodes if absent
	CurrentEpisode int       // Episodes released so far
	IsFree         bool      // charge_pattern == 0
	Kind           MediaKind // Catalog this album belongs to
}

// Malformed reports whether the album lacks the fields required for display.
func (a *Album) Malformed() bool {
	return a == nil || a.Title == "" || a.EpisodeCount < 0
}

// HasTag reports whether tag is exactly one of the album's tags.
func (a *Album) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Progress returns the "now/total" episode label (e.g., "12/40").
func (a *Album) Progress() string {
	if a.EpisodeCount < 0 {
		return fmt.Sprintf("%d/?", a.CurrentEpisode)
	}
	return fmt.Sprintf("%d/%d", a.CurrentEpisode, a.EpisodeCount)
}

// PriceLabel returns "Free" or "Paid".
func (a *Album) PriceLabel() string {
	if a.IsFree {
		return "Free"
	}
	return "Paid"
}
