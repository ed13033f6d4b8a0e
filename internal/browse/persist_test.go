package browse

import (
	"fmt"
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	kv := store.NewMemoryStore()
	s := NewSessionStore(kv, quietLogger)

	sess := domain.DefaultSession()
	sess.ActiveTab = domain.KindAudio
	sess.Search = "jazz"
	sess.TagByTab[domain.KindVideo] = "Drama"
	sess.TagByTab[domain.KindAudio] = "Music"
	sess.PageByTab[domain.KindVideo] = 2
	sess.PageByTab[domain.KindAudio] = 4
	sess.ScrollY = 1234.5

	s.Save(sess)
	got := s.Load()
	require.NotNil(t, got)
	assert.True(t, sess.Equal(*got))
	assert.False(t, got.IsRestoring)
}

func TestSessionStore_RecordShape(t *testing.T) {
	kv := store.NewMemoryStore()
	s := NewSessionStore(kv, quietLogger)

	sess := domain.DefaultSession()
	sess.ScrollY = 10
	s.Save(sess)

	raw, ok, err := kv.Get(StorageKey)
	require.NoError(t, err)
	require.True(t, ok)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &fields))
	assert.ElementsMatch(t,
		[]string{"scrollY", "tab", "search", "videoTag", "audioTag", "videoPage", "audioPage"},
		keys(fields))
	assert.Equal(t, "video", fields["tab"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestSessionStore_LoadMissingOrGarbage(t *testing.T) {
	for _, raw := range []string{"not json", "[1,2]", `"text"`, "null", "42", ""} {
		t.Run(raw, func(t *testing.T) {
			kv := store.NewMemoryStore()
			require.NoError(t, kv.Set(StorageKey, raw))
			assert.Nil(t, NewSessionStore(kv, quietLogger).Load())
		})
	}

	assert.Nil(t, NewSessionStore(store.NewMemoryStore(), quietLogger).Load())
	assert.Nil(t, NewSessionStore(failingKV{}, quietLogger).Load())
}

func TestSessionStore_PerFieldFallback(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey, `{"tab":"bogus","videoPage":3}`))

	got := NewSessionStore(kv, quietLogger).Load()
	require.NotNil(t, got)
	assert.Equal(t, domain.KindVideo, got.ActiveTab)
	assert.Equal(t, 3, got.Page(domain.KindVideo))
	assert.Equal(t, 1, got.Page(domain.KindAudio))
	assert.Zero(t, got.ScrollY)
}

func TestSessionStore_InvalidFieldsUseDefaults(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey,
		`{"scrollY":-5,"tab":"audio","search":7,"videoTag":"Drama","audioTag":false,"videoPage":0,"audioPage":"2"}`))

	got := NewSessionStore(kv, quietLogger).Load()
	require.NotNil(t, got)
	assert.Zero(t, got.ScrollY)
	assert.Equal(t, domain.KindAudio, got.ActiveTab)
	assert.Empty(t, got.Search)
	assert.Equal(t, "Drama", got.TagByTab[domain.KindVideo])
	assert.Empty(t, got.TagByTab[domain.KindAudio])
	assert.Equal(t, 1, got.Page(domain.KindVideo))
	assert.Equal(t, 1, got.Page(domain.KindAudio))
}

func TestSessionStore_OutOfRangePagesUseDefaults(t *testing.T) {
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(StorageKey,
		fmt.Sprintf(`{"videoPage":200000000000000000,"audioPage":%d,"tab":"audio"}`, math.MaxInt/PageSize)))

	got := NewSessionStore(kv, quietLogger).Load()
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Page(domain.KindVideo))
	assert.Equal(t, math.MaxInt/PageSize, got.Page(domain.KindAudio))
	assert.Equal(t, domain.KindAudio, got.ActiveTab)
}

func TestSessionStore_SaveFailureIsSwallowed(t *testing.T) {
	s := NewSessionStore(failingKV{}, quietLogger)
	assert.NotPanics(t, func() { s.Save(domain.DefaultSession()) })
}
