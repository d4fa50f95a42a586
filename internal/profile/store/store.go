// Package store keeps profile photos as data URLs under profilePhoto_<uid>.
package store

import (
	"context"
	"errors"

	"github.com/nova19-exe/eBhutanza/internal/kv"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

func key(userID id.UserID) string { return "profilePhoto_" + userID.String() }

type PhotoStore struct {
	kv kv.Store
}

func New(store kv.Store) *PhotoStore {
	return &PhotoStore{kv: store}
}

// Get returns the stored data URL, or "" when the user has no photo.
func (s *PhotoStore) Get(ctx context.Context, userID id.UserID) (string, error) {
	url, err := s.kv.Get(ctx, key(userID))
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", nil
	}
	return url, err
}

func (s *PhotoStore) Save(ctx context.Context, userID id.UserID, dataURL string) error {
	return s.kv.Set(ctx, key(userID), dataURL)
}

func (s *PhotoStore) Delete(ctx context.Context, userID id.UserID) error {
	return s.kv.Delete(ctx, key(userID))
}
