// Package store implements domain.KeyValueStore with per-tab scoping:
// values written in one browsing session are invisible to other sessions,
// the way a browser keeps session storage per tab.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/albumshelf/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const bucketPrefix = "tab:"

// TabStore implements domain.KeyValueStore using BoltDB, one bucket per tab.
type TabStore struct {
	db     *bolt.DB
	bucket []byte
	tabID  string

	mu     sync.RWMutex // Protects cache and closed
	cache  map[string]string
	closed bool
}

var _ domain.KeyValueStore = (*TabStore)(nil)

// NewTabStore opens (or creates) the database at path and scopes it to tabID.
func NewTabStore(path, tabID string) (*TabStore, error) {
	if tabID == "" {
		return nil, fmt.Errorf("tab id is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	bucket := []byte(bucketPrefix + tabID)
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &TabStore{db: db, bucket: bucket, tabID: tabID, cache: make(map[string]string)}, nil
}

// TabID returns the tab this store is scoped to.
func (s *TabStore) TabID() string {
	return s.tabID
}

func (s *TabStore) Get(key string) (string, bool, error) {
	// Check memory cache first
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return "", false, domain.ErrStoreClosed
	}
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	s.mu.RUnlock()

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil || !found {
		return "", false, err
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()

	return value, true, nil
}

func (s *TabStore) Set(key, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	s.mu.Unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return err
	}

	// Cache only what was persisted
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

func (s *TabStore) Delete(key string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	delete(s.cache, key)
	s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// EndTab discards everything stored for this tab, as closing a browser tab
// discards its session storage. The store stays usable.
func (s *TabStore) EndTab() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrStoreClosed
	}
	s.cache = make(map[string]string)
	s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return nil
		}
		return tx.DeleteBucket(s.bucket)
	})
}

func (s *TabStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cache = nil
	s.mu.Unlock()
	return s.db.Close()
}

// ResolveTabID picks the identity of the current browsing session: the
// configured ID, else the terminal's session or window ID, else a fresh
// random one (state then lives only as long as the process).
func ResolveTabID(configured string) string {
	if configured != "" {
		return configured
	}
	for _, env := range []string{"TERM_SESSION_ID", "WINDOWID"} {
		if v := os.Getenv(env); v != "" {
			return hashTerminalID(v)
		}
	}
	return uuid.NewString()
}

func hashTerminalID(id string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(id)))
	return hex.EncodeToString(hash[:6])
}
