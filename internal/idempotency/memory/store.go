package memory

import (
	"context"
	"sync"
	"time"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

type record struct {
	response ports.StoredResponse
	expires  time.Time
}

// Store retains refund responses for replaying resubmitted requests.
type Store struct {
	mu    sync.Mutex
	items map[string]record
	ttl   time.Duration
	lease time.Duration
	now   func() time.Time
}

// NewStore creates a new in-memory idempotency store. Keys are kept for 24 hours.
func NewStore() *Store {
	return NewStoreWithTTL(24 * time.Hour)
}

// NewStoreWithTTL creates a store whose completed keys expire after ttl.
func NewStoreWithTTL(ttl time.Duration) *Store {
	return &Store{items: make(map[string]record), ttl: ttl, lease: ports.ReservationLease, now: time.Now}
}

// Reserve claims key unless a live record already holds it.
func (s *Store) Reserve(_ context.Context, key string, claim ports.StoredResponse) (*ports.StoredResponse, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if rec, ok := s.items[key]; ok && now.Before(rec.expires) {
		existing := rec.response
		existing.Body = append([]byte(nil), rec.response.Body...)
		return &existing, false, nil
	}
	claim.StatusCode = 0
	claim.Body = nil
	s.items[key] = record{response: claim, expires: now.Add(s.lease)}
	return nil, true, nil
}

// Complete stores the response for a pending claim. A completed key is left alone.
func (s *Store) Complete(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	if ok && !rec.response.Pending() {
		return nil
	}
	response.Body = append([]byte(nil), response.Body...)
	s.items[key] = record{response: response, expires: s.now().Add(s.ttl)}
	return nil
}

// Release drops a pending claim.
func (s *Store) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.items[key]; ok && rec.response.Pending() {
		delete(s.items, key)
	}
	return nil
}
