// Package memcache is an in-memory cache.Cache for tests and embedding.
package memcache

import (
	"context"
	"sync"

	"github.com/taxolab/taxo/pkg/taxo/cache"
)

// Store is an in-memory implementation of cache.Cache.
type Store struct {
	mu      sync.RWMutex
	entries map[cache.Key]entry
}

type entry struct {
	payload  []byte
	rowCount int
}

// New creates a new in-memory cache.
func New() *Store {
	return &Store{entries: make(map[cache.Key]entry)}
}

// Close implements cache.Cache.
func (s *Store) Close() error { return nil }

// Get returns a copy of the payload stored for key.
func (s *Store) Get(ctx context.Context, key cache.Key) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out, true, nil
}

// Put stores a copy of payload under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key cache.Key, payload []byte, rowCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.entries[key] = entry{payload: stored, rowCount: rowCount}
	return nil
}

// Invalidate drops entries of one kind, or all entries when kind is empty.
func (s *Store) Invalidate(ctx context.Context, kind cache.Kind) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key := range s.entries {
		if kind == "" || key.Kind == kind {
			delete(s.entries, key)
			dropped++
		}
	}
	return dropped, nil
}

// Info summarizes the cache contents. The path is always ":memory:".
func (s *Store) Info(ctx context.Context) (cache.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := cache.Info{Path: ":memory:", ByKind: make(map[string]int)}
	for key, e := range s.entries {
		info.Entries++
		info.SizeBytes += int64(len(e.payload))
		info.ByKind[string(key.Kind)]++
	}
	return info, nil
}
