// Package session persists signed-in device sessions under session_<sid>,
// with a per-user index of session IDs under userSessions_<uid>.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/nova19-exe/eBhutanza/internal/identity/models"
	"github.com/nova19-exe/eBhutanza/internal/kv"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

func key(sessionID id.SessionID) string { return "session_" + sessionID.String() }
func indexKey(userID id.UserID) string  { return "userSessions_" + userID.String() }

// Store is safe for concurrent use. Index updates are serialised within one
// process.
type Store struct {
	kv kv.Store
	mu sync.Mutex
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.index(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if !slices.Contains(ids, sess.ID.String()) {
		ids = append(ids, sess.ID.String())
	}
	idx, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode session index: %w", err)
	}
	return s.kv.SetMany(ctx, map[string]string{
		key(sess.ID):          string(raw),
		indexKey(sess.UserID): string(idx),
	})
}

func (s *Store) FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	raw, err := s.kv.Get(ctx, key(sessionID))
	if err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete ends one session. Missing sessions are ignored.
func (s *Store) Delete(ctx context.Context, sessionID id.SessionID) error {
	sess, err := s.FindByID(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, key(sessionID)); err != nil {
		return err
	}
	ids, err := s.index(ctx, sess.UserID)
	if err != nil {
		return err
	}
	ids = slices.DeleteFunc(ids, func(v string) bool { return v == sessionID.String() })
	if len(ids) == 0 {
		return s.kv.Delete(ctx, indexKey(sess.UserID))
	}
	idx, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode session index: %w", err)
	}
	return s.kv.Set(ctx, indexKey(sess.UserID), string(idx))
}

// ListByUser returns the IDs of the user's open sessions.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]id.SessionID, error) {
	ids, err := s.index(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]id.SessionID, 0, len(ids))
	for _, raw := range ids {
		sid, err := id.ParseSessionID(raw)
		if err != nil {
			continue
		}
		out = append(out, sid)
	}
	return out, nil
}

// DeleteByUser ends every session the user has open.
func (s *Store) DeleteByUser(ctx context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.index(ctx, userID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, raw := range ids {
		keys = append(keys, "session_"+raw)
	}
	keys = append(keys, indexKey(userID))
	return s.kv.Delete(ctx, keys...)
}

func (s *Store) index(ctx context.Context, userID id.UserID) ([]string, error) {
	raw, err := s.kv.Get(ctx, indexKey(userID))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode session index: %w", err)
	}
	return ids, nil
}
