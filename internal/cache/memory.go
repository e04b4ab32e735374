package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// DefaultMaxEntries bounds a MemoryStore built by NewMemoryStore.
const DefaultMaxEntries = 10000

// MemoryStore is an in-process Store holding at most limit entries. Expired
// entries are dropped on read, and all of them are swept when a write finds
// the store full; if none had expired, the entry closest to expiry goes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	limit   int
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithLimit(DefaultMaxEntries)
}

func NewMemoryStoreWithLimit(limit int) *MemoryStore {
	if limit < 1 {
		limit = 1
	}
	return &MemoryStore{entries: make(map[string]entry), limit: limit, now: time.Now}
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.limit {
		s.makeRoomLocked()
	}
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) makeRoomLocked() {
	now := s.now()
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	if len(s.entries) < s.limit {
		return
	}

	var victim string
	var soonest time.Time
	found := false
	for k, e := range s.entries {
		expiry := e.expiresAt
		if expiry.IsZero() {
			expiry = now.Add(100 * 365 * 24 * time.Hour)
		}
		if !found || expiry.Before(soonest) {
			victim, soonest, found = k, expiry, true
		}
	}
	delete(s.entries, victim)
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}
