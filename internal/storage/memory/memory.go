// Package memory is an in-process storage backend for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/trendify/storefront/internal/storage"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means never
}

// Store keeps every client's keys in one map guarded by a mutex. Session keys
// expire ttl after their last write, durable keys storage.DurableTTL after it.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

// New creates an empty store. A ttl of zero disables session key expiry.
func New(ttl time.Duration) *Store {
	return &Store{data: make(map[string]entry), ttl: ttl, now: time.Now}
}

// For returns the adapter for clientID.
func (s *Store) For(clientID string) storage.Adapter {
	return &adapter{store: s, clientID: clientID}
}

// Len returns the number of live keys across all clients.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for k, e := range s.data {
		if e.expired(now) {
			delete(s.data, k)
			continue
		}
		n++
	}
	return n
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type adapter struct {
	store    *Store
	clientID string
}

func (a *adapter) key(k string) string {
	return a.clientID + "\x00" + k
}

func (a *adapter) Get(_ context.Context, key string) (string, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[a.key(key)]
	if !ok {
		return "", storage.NotFound(key)
	}
	if e.expired(s.now()) {
		delete(s.data, a.key(key))
		return "", storage.NotFound(key)
	}
	return e.value, nil
}

func (a *adapter) Set(_ context.Context, key, value string) error {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: value}
	switch {
	case storage.Durable(key):
		e.expiresAt = s.now().Add(storage.DurableTTL)
	case s.ttl > 0:
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.data[a.key(key)] = e
	return nil
}

func (a *adapter) Remove(_ context.Context, key string) error {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, a.key(key))
	return nil
}
