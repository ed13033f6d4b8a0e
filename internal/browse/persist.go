package browse

import (
	"log/slog"
	"math"

	"github.com/goccy/go-json"
	"github.com/mmcdole/albumshelf/internal/domain"
)

// StorageKey is the key the session record lives under.
const StorageKey = "homeState"

// sessionRecord is the persisted shape. Field names are shared with other
// readers of the same storage and must not change.
type sessionRecord struct {
	ScrollY   float64 `json:"scrollY"`
	Tab       string  `json:"tab"`
	Search    string  `json:"search"`
	VideoTag  string  `json:"videoTag"`
	AudioTag  string  `json:"audioTag"`
	VideoPage int     `json:"videoPage"`
	AudioPage int     `json:"audioPage"`
}

// SessionStore saves and loads the browse session in per-tab storage.
type SessionStore struct {
	kv     domain.KeyValueStore
	logger *slog.Logger
}

// NewSessionStore creates a store over kv.
func NewSessionStore(kv domain.KeyValueStore, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{kv: kv, logger: logger}
}

// Save overwrites the persisted session. Failures are logged and swallowed.
func (s *SessionStore) Save(sess domain.BrowseSession) {
	rec := sessionRecord{
		ScrollY:   sess.ScrollY,
		Tab:       string(sess.ActiveTab),
		Search:    sess.Search,
		VideoTag:  sess.TagByTab[domain.KindVideo],
		AudioTag:  sess.TagByTab[domain.KindAudio],
		VideoPage: sess.Page(domain.KindVideo),
		AudioPage: sess.Page(domain.KindAudio),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Warn("failed to encode session", "error", err)
		return
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		s.logger.Warn("failed to save session", "error", err)
	}
}

// Load returns the persisted session, or nil when there is none or it is
// not a JSON object. Individual fields that are missing or invalid fall back
// to their defaults without discarding the rest.
func (s *SessionStore) Load() *domain.BrowseSession {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.logger.Debug("session unreadable", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		s.logger.Debug("session corrupt, using defaults", "error", err)
		return nil
	}

	sess := domain.DefaultSession()

	var scrollY float64
	if decodeField(fields, "scrollY", &scrollY) && scrollY > 0 && !math.IsInf(scrollY, 0) {
		sess.ScrollY = scrollY
	}

	var tab string
	if decodeField(fields, "tab", &tab) {
		if kind, err := domain.ParseKind(tab); err == nil {
			sess.ActiveTab = kind
		}
	}

	decodeField(fields, "search", &sess.Search)

	var tag string
	if decodeField(fields, "videoTag", &tag) {
		sess.TagByTab[domain.KindVideo] = tag
	}
	tag = ""
	if decodeField(fields, "audioTag", &tag) {
		sess.TagByTab[domain.KindAudio] = tag
	}

	var page int
	if decodeField(fields, "videoPage", &page) && validPage(page) {
		sess.PageByTab[domain.KindVideo] = page
	}
	page = 0
	if decodeField(fields, "audioPage", &page) && validPage(page) {
		sess.PageByTab[domain.KindAudio] = page
	}

	return &sess
}

// maxPage keeps page×PageSize within an int.
const maxPage = math.MaxInt / PageSize

func validPage(page int) bool {
	return page >= 1 && page <= maxPage
}

// decodeField decodes fields[name] into dest. It reports false, leaving dest
// untouched, when the field is absent or has the wrong type.
func decodeField[T any](fields map[string]json.RawMessage, name string, dest *T) bool {
	raw, ok := fields[name]
	if !ok {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dest = v
	return true
}
