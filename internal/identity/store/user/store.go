// Package user persists accounts in the key-value store: the record under
// user_<uid> and an e-mail index under userEmail_<email>.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nova19-exe/eBhutanza/internal/identity/models"
	"github.com/nova19-exe/eBhutanza/internal/kv"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

func recordKey(userID id.UserID) string { return "user_" + userID.String() }
func emailKey(email string) string      { return "userEmail_" + models.NormalizeEmail(email) }

// Store is safe for concurrent use. Uniqueness of e-mail addresses is
// enforced within one process.
type Store struct {
	kv kv.Store
	mu sync.Mutex
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Create saves a new user, failing with sentinel.ErrConflict when the
// e-mail address is taken.
func (s *Store) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.kv.Get(ctx, emailKey(u.Email))
	if err == nil {
		return sentinel.ErrConflict
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.SetMany(ctx, map[string]string{
		recordKey(u.ID):   string(raw),
		emailKey(u.Email): u.ID.String(),
	})
}

// Update rewrites an existing user record. The e-mail address is fixed.
func (s *Store) Update(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.kv.Get(ctx, recordKey(u.ID)); err != nil {
		return err
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.Set(ctx, recordKey(u.ID), string(raw))
}

func (s *Store) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	raw, err := s.kv.Get(ctx, recordKey(userID))
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	raw, err := s.kv.Get(ctx, emailKey(email))
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(raw)
	if err != nil {
		return nil, fmt.Errorf("decode email index: %w", err)
	}
	return s.FindByID(ctx, userID)
}

// Delete removes the user and its e-mail index.
func (s *Store) Delete(ctx context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.kv.Delete(ctx, recordKey(userID), emailKey(u.Email))
}
