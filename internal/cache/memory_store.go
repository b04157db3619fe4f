package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store used in tests and as the development
// fallback when Redis is not configured. Expired entries are dropped lazily
// on lookup.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	tags    map[string]map[string]struct{}
	now     func() time.Time
}

// NewMemoryStore constructs an in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		tags:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

// GetOrCompute returns the cached payload for key, computing and storing it on a miss.
func (s *MemoryStore) GetOrCompute(ctx context.Context, key string, ttl time.Duration, tags []string, compute ComputeFn) ([]byte, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && s.now().Before(entry.expiresAt) {
		s.mu.Unlock()
		return entry.payload, nil
	}
	if ok {
		delete(s.entries, key)
	}
	s.mu.Unlock()

	payload, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{payload: payload, expiresAt: s.now().Add(ttl)}
	for _, tag := range tags {
		if s.tags[tag] == nil {
			s.tags[tag] = make(map[string]struct{})
		}
		s.tags[tag][key] = struct{}{}
	}
	s.mu.Unlock()

	return payload, nil
}

// Invalidate evicts every payload registered under the given tags.
func (s *MemoryStore) Invalidate(_ context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range tags {
		for key := range s.tags[tag] {
			delete(s.entries, key)
		}
		delete(s.tags, tag)
	}
	return nil
}
