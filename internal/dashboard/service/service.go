// Package service assembles the dashboard summary from the other modules.
package service

import (
	"context"
	"log/slog"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	"github.com/nova19-exe/eBhutanza/internal/dashboard/models"
	identity "github.com/nova19-exe/eBhutanza/internal/identity/models"
	incorporation "github.com/nova19-exe/eBhutanza/internal/incorporation/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
)

type Users interface {
	GetUser(ctx context.Context, userID id.UserID) (*identity.User, error)
}

type Drafts interface {
	LoadDraft(ctx context.Context, userID id.UserID) (application.ApplicantProfile, error)
}

type Incorporations interface {
	List(ctx context.Context, userID id.UserID) ([]*incorporation.Request, error)
}

type Service struct {
	users          Users
	drafts         Drafts
	incorporations Incorporations
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithIncorporations(i Incorporations) Option {
	return func(s *Service) { s.incorporations = i }
}

func New(users Users, drafts Drafts, opts ...Option) *Service {
	s := &Service{users: users, drafts: drafts, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary builds the dashboard. An unreadable draft shows as not started
// rather than failing the page.
func (s *Service) Summary(ctx context.Context, userID id.UserID) (*models.Summary, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	draft, err := s.drafts.LoadDraft(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard without draft", "user_id", userID, "error", err)
		draft = application.EmptyProfile(userID)
	}

	summary := &models.Summary{
		WelcomeName:     user.WelcomeName(),
		ProgressPercent: draft.ProgressPercent,
		StatusKey:       draft.StatusKey,
		QuickActions:    models.QuickActionsFor(draft.StatusKey),
	}
	if s.incorporations != nil {
		if list, err := s.incorporations.List(ctx, userID); err == nil {
			summary.IncorporationCount = len(list)
		}
	}
	return summary, nil
}
