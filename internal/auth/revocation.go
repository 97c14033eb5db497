package auth

import (
	"sync"
	"time"
)

// RevocationStore tracks access tokens that were logged out before expiry,
// keyed by their jti claim.
type RevocationStore interface {
	// IsRevoked checks if the given token id (jti) has been revoked.
	IsRevoked(jti string) (bool, error)
	// Revoke marks the given token id (jti) as revoked until exp.
	Revoke(jti string, exp time.Time) error
}

// InMemoryRevocationStore keeps revoked token ids in a map guarded by a
// RWMutex. Entries are dropped once the token would have expired anyway.
type InMemoryRevocationStore struct {
	revoked map[string]time.Time
	mu      sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewInMemoryRevocationStore creates a store and starts a janitor goroutine
// that sweeps expired entries every five minutes until Close is called.
func NewInMemoryRevocationStore() *InMemoryRevocationStore {
	store := &InMemoryRevocationStore{
		revoked: make(map[string]time.Time),
		stop:    make(chan struct{}),
	}
	go store.janitor()
	return store
}

func (s *InMemoryRevocationStore) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.CleanUpExpired()
		case <-s.stop:
			return
		}
	}
}

// Close stops the janitor goroutine. Safe to call more than once.
func (s *InMemoryRevocationStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// CleanUpExpired removes every entry whose expiry has passed.
func (s *InMemoryRevocationStore) CleanUpExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for jti, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, jti)
		}
	}
}

// IsRevoked reports whether jti is in the store.
func (s *InMemoryRevocationStore) IsRevoked(jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.revoked[jti]
	return exists, nil
}

// Revoke records jti until exp.
func (s *InMemoryRevocationStore) Revoke(jti string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[jti] = exp
	return nil
}
