// Package service backs the settings page: preferences, password changes,
// the data export and account deletion.
package service

import (
	"context"
	"errors"
	"log/slog"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	incorporation "github.com/nova19-exe/eBhutanza/internal/incorporation/models"
	profile "github.com/nova19-exe/eBhutanza/internal/profile/models"
	"github.com/nova19-exe/eBhutanza/internal/settings/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

type PreferencesStore interface {
	Get(ctx context.Context, userID id.UserID) (models.Preferences, error)
	Save(ctx context.Context, userID id.UserID, prefs models.Preferences) error
	Delete(ctx context.Context, userID id.UserID) error
}

type Accounts interface {
	GetUser(ctx context.Context, userID id.UserID) (*identity.User, error)
	ChangePassword(ctx context.Context, userID id.UserID, req *identity.ChangePasswordRequest) error
	DeleteUser(ctx context.Context, userID id.UserID, sessionID id.SessionID, jti string) error
}

type Drafts interface {
	LoadDraft(ctx context.Context, userID id.UserID) (application.ApplicantProfile, error)
	DeleteDraft(ctx context.Context, userID id.UserID) error
}

type Incorporations interface {
	List(ctx context.Context, userID id.UserID) ([]*incorporation.Request, error)
	DeleteAll(ctx context.Context, userID id.UserID) error
}

type Profiles interface {
	Get(ctx context.Context, userID id.UserID) (*profile.Profile, error)
	DeletePhoto(ctx context.Context, userID id.UserID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type Service struct {
	prefs          PreferencesStore
	accounts       Accounts
	drafts         Drafts
	incorporations Incorporations
	profiles       Profiles
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

// WithIncorporations includes incorporation requests in exports and deletions.
func WithIncorporations(i Incorporations) Option {
	return func(s *Service) { s.incorporations = i }
}

// WithProfiles includes the profile photo in exports and deletions.
func WithProfiles(p Profiles) Option {
	return func(s *Service) { s.profiles = p }
}

func New(prefs PreferencesStore, accounts Accounts, drafts Drafts, opts ...Option) *Service {
	s := &Service{
		prefs:    prefs,
		accounts: accounts,
		drafts:   drafts,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) GetPreferences(ctx context.Context, userID id.UserID) (models.Preferences, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return models.Preferences{}, translate(err, "failed to load preferences")
	}
	return prefs, nil
}

// UpdatePreferences applies the fields present in req over the stored preferences.
func (s *Service) UpdatePreferences(ctx context.Context, userID id.UserID, req *models.UpdatePreferencesRequest) (models.Preferences, error) {
	if err := req.Validate(); err != nil {
		return models.Preferences{}, err
	}
	current, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return models.Preferences{}, err
	}
	next := req.Apply(current)
	if err := s.prefs.Save(ctx, userID, next); err != nil {
		return models.Preferences{}, translate(err, "failed to save preferences")
	}
	return next, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID id.UserID, req *models.ChangePasswordRequest) error {
	return s.accounts.ChangePassword(ctx, userID, req)
}

// Export gathers everything held about the user. Incorporation requests and
// the profile are optional parts; their failures are logged and left out.
func (s *Service) Export(ctx context.Context, userID id.UserID) (*models.Export, error) {
	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	draft, err := s.drafts.LoadDraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	export := &models.Export{
		ExportedAt:     requestcontext.Now(ctx),
		User:           user.Public(),
		Application:    draft,
		Preferences:    prefs,
		Incorporations: []*incorporation.Request{},
	}
	if s.incorporations != nil {
		list, err := s.incorporations.List(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "export without incorporation requests", "user_id", userID, "error", err)
		} else {
			export.Incorporations = list
		}
	}
	if s.profiles != nil {
		p, err := s.profiles.Get(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "export without profile", "user_id", userID, "error", err)
		} else {
			export.Profile = p
		}
	}

	s.emitAudit(ctx, user, audit.EventDataExported)
	return export, nil
}

// DeleteAccount removes the account first, then everything keyed by the
// user. Cleanup failures are logged; the account is already gone.
func (s *Service) DeleteAccount(ctx context.Context, userID id.UserID, sessionID id.SessionID, jti string) error {
	if err := s.accounts.DeleteUser(ctx, userID, sessionID, jti); err != nil {
		return err
	}

	cleanup := []cleanupStep{
		{"draft", s.drafts.DeleteDraft},
		{"preferences", s.prefs.Delete},
	}
	if s.incorporations != nil {
		cleanup = append(cleanup, cleanupStep{"incorporations", s.incorporations.DeleteAll})
	}
	if s.profiles != nil {
		cleanup = append(cleanup, cleanupStep{"profile_photo", s.profiles.DeletePhoto})
	}
	for _, c := range cleanup {
		if err := c.fn(ctx, userID); err != nil {
			s.logger.ErrorContext(ctx, "failed to remove user data after account deletion",
				"user_id", userID,
				"part", c.name,
				"error", err,
			)
		}
	}
	return nil
}

type cleanupStep struct {
	name string
	fn   func(context.Context, id.UserID) error
}

func (s *Service) emitAudit(ctx context.Context, user *identity.User, event audit.AuditEvent) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  user.ID,
		Subject: user.ID.String(),
		Action:  string(event),
		Email:   user.Email,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event, "error", err)
	}
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
