// Package revocation keeps the list of access tokens revoked by sign-out
// until they would have expired anyway.
package revocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

// InMemoryTRL is a process-local revocation list.
type InMemoryTRL struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewInMemoryTRL() *InMemoryTRL {
	return &InMemoryTRL{revoked: make(map[string]time.Time), now: time.Now}
}

// RevokeToken records jti until ttl elapses.
func (t *InMemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = t.now().Add(ttl)
	return nil
}

// IsRevoked reports whether jti is revoked. Expired entries are pruned.
func (t *InMemoryTRL) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	until, ok := t.revoked[jti]
	if !ok {
		return false, nil
	}
	if !t.now().Before(until) {
		delete(t.revoked, jti)
		return false, nil
	}
	return true, nil
}
