// Package service accepts business incorporation requests and forwards them
// to the company registry topic.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nova19-exe/eBhutanza/internal/incorporation/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

type Store interface {
	Append(ctx context.Context, req *models.Request) error
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Request, error)
	DeleteByUser(ctx context.Context, userID id.UserID) error
}

// Publisher delivers registry events. *kafka.Publisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type Service struct {
	store          Store
	publisher      Publisher
	topic          string
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithPublisher forwards accepted requests to topic.
func WithPublisher(p Publisher, topic string) Option {
	return func(s *Service) {
		s.publisher = p
		s.topic = topic
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request stores the request and forwards it to the registry. A failed
// forward is logged and reported as Published=false; the request stands.
func (s *Service) Request(ctx context.Context, userID id.UserID, req *models.CreateRequest) (*models.Result, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record := &models.Request{
		ID:               id.NewIncorporationID(),
		UserID:           userID,
		CompanyName:      req.CompanyName,
		CompanyType:      req.CompanyType,
		BusinessActivity: req.BusinessActivity,
		Status:           models.StatusSubmitted,
		CreatedAt:        requestcontext.Now(ctx),
	}
	if err := s.store.Append(ctx, record); err != nil {
		return nil, translate(err, "failed to save incorporation request")
	}

	published := false
	if s.publisher != nil {
		err := s.publisher.PublishJSON(ctx, s.topic, record.ID.String(), models.RegistryEvent{
			Type:    models.EventIncorporationRequested,
			Request: record,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "failed to forward incorporation request",
				"user_id", userID,
				"incorporation_id", record.ID,
				"error", err,
			)
		} else {
			published = true
		}
	}

	s.logger.InfoContext(ctx, "incorporation requested",
		"user_id", userID,
		"incorporation_id", record.ID,
		"company_type", record.CompanyType,
	)
	if s.auditPublisher != nil {
		if err := s.auditPublisher.Emit(ctx, audit.Event{
			UserID:  userID,
			Subject: record.ID.String(),
			Action:  string(audit.EventIncorporationRequested),
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event", "error", err)
		}
	}

	return &models.Result{
		Request:   record,
		Message:   models.ConfirmationMessage(record.CompanyName),
		Published: published,
	}, nil
}

func (s *Service) List(ctx context.Context, userID id.UserID) ([]*models.Request, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "failed to load incorporation requests")
	}
	return list, nil
}

func (s *Service) DeleteAll(ctx context.Context, userID id.UserID) error {
	if err := s.store.DeleteByUser(ctx, userID); err != nil {
		return translate(err, "failed to delete incorporation requests")
	}
	return nil
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
