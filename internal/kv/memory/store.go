package memory

import (
	"context"
	"sync"

	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

// Store is an in-process kv.Store. State is lost on restart.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
	// failWrites makes every write return ErrUnavailable; tests use it to
	// exercise the degraded persistence path.
	failWrites bool
}

func New() *Store {
	return &Store{entries: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return sentinel.ErrUnavailable
	}
	s.entries[key] = value
	return nil
}

func (s *Store) SetMany(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return sentinel.ErrUnavailable
	}
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return sentinel.ErrUnavailable
	}
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// FailWrites toggles simulated write failures.
func (s *Store) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
