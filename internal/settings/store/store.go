// Package store keeps preferences under preferences_<uid>.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nova19-exe/eBhutanza/internal/kv"
	"github.com/nova19-exe/eBhutanza/internal/settings/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

func key(userID id.UserID) string { return "preferences_" + userID.String() }

type PreferencesStore struct {
	kv kv.Store
}

func New(store kv.Store) *PreferencesStore {
	return &PreferencesStore{kv: store}
}

// Get returns the stored preferences, or the defaults when none are stored.
func (s *PreferencesStore) Get(ctx context.Context, userID id.UserID) (models.Preferences, error) {
	raw, err := s.kv.Get(ctx, key(userID))
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.Preferences{}, err
	}
	prefs := models.DefaultPreferences()
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

func (s *PreferencesStore) Save(ctx context.Context, userID id.UserID, prefs models.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return s.kv.Set(ctx, key(userID), string(raw))
}

func (s *PreferencesStore) Delete(ctx context.Context, userID id.UserID) error {
	return s.kv.Delete(ctx, key(userID))
}
