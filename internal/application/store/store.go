// Package store lays the application draft out over the key-value store.
//
// Each user owns three keys: applicationData_<uid> (JSON field snapshot plus
// passport marker), applicationProgress_<uid> (decimal 0-100) and
// applicationStatusKey_<uid>. The unsuffixed keys are a legacy global layout
// that is read as a fallback and never written.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nova19-exe/eBhutanza/internal/application/models"
	"github.com/nova19-exe/eBhutanza/internal/kv"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

const (
	LegacyDataKey     = "applicationData"
	LegacyProgressKey = "applicationProgress"
	LegacyStatusKey   = "applicationStatusKey"
)

func DataKey(userID id.UserID) string     { return LegacyDataKey + "_" + userID.String() }
func ProgressKey(userID id.UserID) string { return LegacyProgressKey + "_" + userID.String() }
func StatusKey(userID id.UserID) string   { return LegacyStatusKey + "_" + userID.String() }

// LegacyKeys lists the unsuffixed keys.
func LegacyKeys() []string {
	return []string{LegacyDataKey, LegacyProgressKey, LegacyStatusKey}
}

// Entry is one raw value and where it was read from.
type Entry struct {
	Value  string
	Found  bool
	Legacy bool
}

// Entries are the raw draft values for a user.
type Entries struct {
	Data     Entry
	Progress Entry
	Status   Entry
}

// FromLegacy reports whether any value came from the legacy layout.
func (e Entries) FromLegacy() bool {
	return e.Data.Legacy || e.Progress.Legacy || e.Status.Legacy
}

// Empty reports whether nothing is stored in either layout.
func (e Entries) Empty() bool {
	return !e.Data.Found && !e.Progress.Found && !e.Status.Found
}

type storedDraft struct {
	FullName         string  `json:"fullName"`
	Email            string  `json:"email"`
	Country          string  `json:"country"`
	Signature        string  `json:"signature"`
	PassportFileName *string `json:"passportFileName"`
}

// EncodeDraft renders the data value. Only the file name is kept.
func EncodeDraft(fields models.Fields, marker *string) (string, error) {
	b, err := json.Marshal(storedDraft{
		FullName:         fields.FullName,
		Email:            fields.Email,
		Country:          fields.Country,
		Signature:        fields.Signature,
		PassportFileName: marker,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeDraft parses a data value. Unknown keys are ignored.
func DecodeDraft(raw string) (models.Fields, *string, error) {
	var d storedDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return models.Fields{}, nil, fmt.Errorf("decode draft: %w", err)
	}
	fields := models.Fields{
		FullName:  d.FullName,
		Email:     d.Email,
		Country:   d.Country,
		Signature: d.Signature,
	}
	if !models.HasPassport(d.PassportFileName) {
		return fields, nil, nil
	}
	return fields, d.PassportFileName, nil
}

// DecodeProgress parses a progress value and rejects anything outside 0-100.
func DecodeProgress(raw string) (int, error) {
	p, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("decode progress: %w", err)
	}
	if !models.ValidProgress(p) {
		return 0, fmt.Errorf("decode progress: %d out of range", p)
	}
	return p, nil
}

// DraftStore reads and writes drafts.
type DraftStore struct {
	kv kv.Store
}

func New(store kv.Store) *DraftStore {
	return &DraftStore{kv: store}
}

// Load reads the three values, falling back per key to the legacy layout.
func (s *DraftStore) Load(ctx context.Context, userID id.UserID) (Entries, error) {
	var (
		out Entries
		err error
	)
	if out.Data, err = s.read(ctx, DataKey(userID), LegacyDataKey); err != nil {
		return Entries{}, err
	}
	if out.Progress, err = s.read(ctx, ProgressKey(userID), LegacyProgressKey); err != nil {
		return Entries{}, err
	}
	if out.Status, err = s.read(ctx, StatusKey(userID), LegacyStatusKey); err != nil {
		return Entries{}, err
	}
	return out, nil
}

func (s *DraftStore) read(ctx context.Context, key, legacyKey string) (Entry, error) {
	v, err := s.kv.Get(ctx, key)
	if err == nil {
		return Entry{Value: v, Found: true}, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return Entry{}, err
	}
	v, err = s.kv.Get(ctx, legacyKey)
	if err == nil {
		return Entry{Value: v, Found: true, Legacy: true}, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return Entry{}, nil
	}
	return Entry{}, err
}

// Save writes all three values in one atomic batch.
func (s *DraftStore) Save(ctx context.Context, profile models.ApplicantProfile) error {
	data, err := EncodeDraft(profile.Fields, profile.PassportFileName)
	if err != nil {
		return err
	}
	return s.kv.SetMany(ctx, map[string]string{
		DataKey(profile.UserID):     data,
		ProgressKey(profile.UserID): strconv.Itoa(profile.ProgressPercent),
		StatusKey(profile.UserID):   profile.StatusKey.String(),
	})
}

// SaveEntries copies raw values into the user's namespaced keys. Missing
// entries are skipped.
func (s *DraftStore) SaveEntries(ctx context.Context, userID id.UserID, e Entries) error {
	batch := make(map[string]string, 3)
	if e.Data.Found {
		batch[DataKey(userID)] = e.Data.Value
	}
	if e.Progress.Found {
		batch[ProgressKey(userID)] = e.Progress.Value
	}
	if e.Status.Found {
		batch[StatusKey(userID)] = e.Status.Value
	}
	if len(batch) == 0 {
		return nil
	}
	return s.kv.SetMany(ctx, batch)
}

// Clear removes the user's draft.
func (s *DraftStore) Clear(ctx context.Context, userID id.UserID) error {
	return s.kv.Delete(ctx, DataKey(userID), ProgressKey(userID), StatusKey(userID))
}

// ClearLegacy removes the legacy global keys.
func (s *DraftStore) ClearLegacy(ctx context.Context) error {
	return s.kv.Delete(ctx, LegacyKeys()...)
}
