// Package store keeps a user's incorporation requests as one JSON list
// under incorporations_<uid>.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nova19-exe/eBhutanza/internal/incorporation/models"
	"github.com/nova19-exe/eBhutanza/internal/kv"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

func key(userID id.UserID) string { return "incorporations_" + userID.String() }

type Store struct {
	kv kv.Store
	mu sync.Mutex
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Append adds a request to the user's list.
func (s *Store) Append(ctx context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.list(ctx, req.UserID)
	if err != nil {
		return err
	}
	list = append(list, req)
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode incorporations: %w", err)
	}
	return s.kv.Set(ctx, key(req.UserID), string(raw))
}

// ListByUser returns requests oldest first.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(ctx, userID)
}

func (s *Store) list(ctx context.Context, userID id.UserID) ([]*models.Request, error) {
	raw, err := s.kv.Get(ctx, key(userID))
	if errors.Is(err, sentinel.ErrNotFound) {
		return []*models.Request{}, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*models.Request
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode incorporations: %w", err)
	}
	return list, nil
}

func (s *Store) DeleteByUser(ctx context.Context, userID id.UserID) error {
	return s.kv.Delete(ctx, key(userID))
}
