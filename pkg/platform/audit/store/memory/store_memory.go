// Package memory keeps audit events in process, for single-node and test
// deployments.
package memory

import (
	"context"
	"sync"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	audit "github.com/nova19-exe/eBhutanza/pkg/platform/audit"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	events   map[id.UserID][]audit.Event
	opsLimit int
}

type Option func(*InMemoryStore)

// WithOperationsLimit keeps at most n operations-category events per user,
// dropping the oldest. Compliance and security events are never dropped.
func WithOperationsLimit(n int) Option {
	return func(s *InMemoryStore) { s.opsLimit = n }
}

func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{events: make(map[id.UserID][]audit.Event)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := append(s.events[event.UserID], event)
	if s.opsLimit > 0 && event.Category == audit.CategoryOperations {
		events = trimOperations(events, s.opsLimit)
	}
	s.events[event.UserID] = events
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[userID]...), nil
}

func trimOperations(events []audit.Event, limit int) []audit.Event {
	ops := 0
	for _, e := range events {
		if e.Category == audit.CategoryOperations {
			ops++
		}
	}
	drop := ops - limit
	if drop <= 0 {
		return events
	}
	kept := events[:0]
	for _, e := range events {
		if drop > 0 && e.Category == audit.CategoryOperations {
			drop--
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
