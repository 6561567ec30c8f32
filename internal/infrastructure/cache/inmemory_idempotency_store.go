package cache

import (
	"context"
	"sync"
	"time"

	"github.com/multimart/backend/internal/domain/shared"
)

// sweepEvery is the number of writes between scans for expired ids
const sweepEvery = 1024

// InMemoryIdempotencyStore is the single-instance fallback used when Redis is
// disabled. Expired ids are dropped lazily during writes.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	writes  int
	now     func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkProcessed records eventID unless an unexpired record exists
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expires[eventID]; ok && now.Before(exp) {
		return false, nil
	}

	s.expires[eventID] = now.Add(ttl)
	s.writes++
	if s.writes%sweepEvery == 0 {
		s.sweep(now)
	}
	return true, nil
}

// IsProcessed reports whether eventID has an unexpired record
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expires[eventID]
	return ok && s.now().Before(exp), nil
}

// Size returns the number of records, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

// Close drops every record
func (s *InMemoryIdempotencyStore) Close() error {
	s.mu.Lock()
	s.expires = make(map[string]time.Time)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryIdempotencyStore) sweep(now time.Time) {
	for id, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, id)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
