package history

import (
	"context"
	"sync"
)

// MemoryStore keeps the most recent records in a fixed-size ring.
type MemoryStore struct {
	mu    sync.Mutex
	ring  []Record
	next  int
	count int
}

// NewMemoryStore creates a store holding at most limit records.
// A limit <= 0 selects DefaultLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{ring: make([]Record, limit)}
}

// Add appends r, evicting the oldest record when full.
func (s *MemoryStore) Add(_ context.Context, r Record) error {
	r = stamp(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.next] = r
	s.next = (s.next + 1) % len(s.ring)
	if s.count < len(s.ring) {
		s.count++
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit = min(clampLimit(limit), s.count)
	out := make([]Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.ring)) % len(s.ring)
		out = append(out, s.ring[idx])
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
