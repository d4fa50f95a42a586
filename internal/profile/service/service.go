// Package service applies profile updates in two phases: the display name
// first, then the photo. A photo that cannot be stored is reverted without
// undoing the rename.
package service

import (
	"context"
	"errors"
	"log/slog"

	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	"github.com/nova19-exe/eBhutanza/internal/profile/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

// Accounts is the slice of the identity service the profile needs.
type Accounts interface {
	GetUser(ctx context.Context, userID id.UserID) (*identity.User, error)
	UpdateDisplayName(ctx context.Context, userID id.UserID, name string) (*identity.User, error)
}

type PhotoStore interface {
	Get(ctx context.Context, userID id.UserID) (string, error)
	Save(ctx context.Context, userID id.UserID, dataURL string) error
	Delete(ctx context.Context, userID id.UserID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type Service struct {
	accounts       Accounts
	photos         PhotoStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

func New(accounts Accounts, photos PhotoStore, opts ...Option) *Service {
	s := &Service{accounts: accounts, photos: photos, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the profile. A photo that cannot be read is left out.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	photo, err := s.photos.Get(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load profile photo", "user_id", userID, "error", err)
		photo = ""
	}
	p := profileOf(user, photo)
	return &p, nil
}

// Update renames the account and then applies the photo change. A failed
// rename fails the whole update; a failed photo write only reverts the photo.
func (s *Service) Update(ctx context.Context, userID id.UserID, req *models.UpdateRequest) (*models.UpdateResult, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	previousPhoto, err := s.photos.Get(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load profile photo", "user_id", userID, "error", err)
		previousPhoto = ""
	}

	user, err := s.accounts.UpdateDisplayName(ctx, userID, req.DisplayName)
	if err != nil {
		return nil, err
	}
	result := &models.UpdateResult{
		Provisional: profileOf(user, previousPhoto),
		PhotoStatus: models.PhotoUnchanged,
	}
	result.Confirmed = result.Provisional

	switch {
	case req.Photo != nil:
		if err := s.photos.Save(ctx, userID, *req.Photo); err != nil {
			s.revert(ctx, userID, result, err)
			break
		}
		result.Confirmed.PhotoURL = *req.Photo
		result.PhotoStatus = models.PhotoStored
	case req.RemovePhoto && previousPhoto != "":
		if err := s.photos.Delete(ctx, userID); err != nil {
			s.revert(ctx, userID, result, err)
			break
		}
		result.Confirmed.PhotoURL = ""
		result.PhotoStatus = models.PhotoRemoved
	}

	s.emitAudit(ctx, user, string(result.PhotoStatus))
	return result, nil
}

// DeletePhoto drops the stored photo, if any.
func (s *Service) DeletePhoto(ctx context.Context, userID id.UserID) error {
	if err := s.photos.Delete(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to delete profile photo")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete profile photo")
	}
	return nil
}

func (s *Service) revert(ctx context.Context, userID id.UserID, result *models.UpdateResult, err error) {
	s.logger.WarnContext(ctx, "profile photo not saved, keeping previous photo",
		"user_id", userID,
		"error", err,
	)
	result.PhotoStatus = models.PhotoReverted
	result.Notice = models.NoticePhotoNotSaved
}

func (s *Service) emitAudit(ctx context.Context, user *identity.User, reason string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  user.ID,
		Subject: user.ID.String(),
		Action:  string(audit.EventProfileUpdated),
		Reason:  reason,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", audit.EventProfileUpdated, "error", err)
	}
}

func profileOf(user *identity.User, photo string) models.Profile {
	return models.Profile{
		UID:         user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    photo,
	}
}
