package domain

// FilterCriteria is the user's current search and tag constraint.
// An empty string means no constraint.
type FilterCriteria struct {
	Query string
	Tag   string
}

// BrowseSession is everything needed to put the user back where they were.
type BrowseSession struct {
	ActiveTab   MediaKind
	Search      string
	TagByTab    map[MediaKind]string
	PageByTab   map[MediaKind]int
	ScrollY     float64
	IsRestoring bool // Never persisted
}

// DefaultSession returns the session used when nothing was persisted.
func DefaultSession() BrowseSession {
	return BrowseSession{
		ActiveTab: KindVideo,
		TagByTab:  map[MediaKind]string{KindVideo: "", KindAudio: ""},
		PageByTab: map[MediaKind]int{KindVideo: 1, KindAudio: 1},
	}
}

// Criteria returns the filter criteria in effect for a tab.
// The search text is shared between tabs, the tag is not.
func (s BrowseSession) Criteria(kind MediaKind) FilterCriteria {
	return FilterCriteria{Query: s.Search, Tag: s.TagByTab[kind]}
}

// Page returns the page counter for a tab, never less than 1.
func (s BrowseSession) Page(kind MediaKind) int {
	if p := s.PageByTab[kind]; p > 0 {
		return p
	}
	return 1
}

// ResetPages restarts pagination for both tabs.
func (s *BrowseSession) ResetPages() {
	if s.PageByTab == nil {
		s.PageByTab = make(map[MediaKind]int, len(Kinds))
	}
	for _, k := range Kinds {
		s.PageByTab[k] = 1
	}
}

// Clone returns a deep copy so snapshots never alias live maps.
func (s BrowseSession) Clone() BrowseSession {
	c := s
	c.TagByTab = make(map[MediaKind]string, len(Kinds))
	c.PageByTab = make(map[MediaKind]int, len(Kinds))
	for _, k := range Kinds {
		c.TagByTab[k] = s.TagByTab[k]
		c.PageByTab[k] = s.Page(k)
	}
	return c
}

// Equal compares the persisted portion of two sessions (IsRestoring excluded).
func (s BrowseSession) Equal(o BrowseSession) bool {
	if s.ActiveTab != o.ActiveTab || s.Search != o.Search || s.ScrollY != o.ScrollY {
		return false
	}
	for _, k := range Kinds {
		if s.TagByTab[k] != o.TagByTab[k] || s.Page(k) != o.Page(k) {
			return false
		}
	}
	return true
}
