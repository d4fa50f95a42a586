// Package service runs the AI compliance risk assessment. One model call per
// request: no retries and no caching. Any failure surfaces as the same
// generic retry-later error.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nova19-exe/eBhutanza/internal/compliance/llm"
	"github.com/nova19-exe/eBhutanza/internal/compliance/metrics"
	"github.com/nova19-exe/eBhutanza/internal/compliance/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
)

var errInvalidOutput = errors.New("model output does not match the assessment schema")

// Model completes a chat. *llm.Client satisfies it.
type Model interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

type Service struct {
	model          Model
	schema         *gojsonschema.Schema
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

func New(model Model, opts ...Option) (*Service, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(outputSchema))
	if err != nil {
		return nil, fmt.Errorf("compile assessment schema: %w", err)
	}
	s := &Service{
		model:  model,
		schema: schema,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("ebhutanza/compliance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Assess validates the input, asks the model once and checks the reply's shape.
func (s *Service) Assess(ctx context.Context, userID id.UserID, req *models.AssessRequest) (*models.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "compliance.Assess")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("compliance.input_length", len(req.ApplicantData)))

	prompt, err := renderPrompt(req.ApplicantData)
	if err != nil {
		return nil, s.fail(ctx, span, userID, "prompt_error", err)
	}

	start := time.Now()
	reply, err := s.model.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	})
	if s.metrics != nil {
		s.metrics.ObserveModelLatency(start)
	}
	if err != nil {
		return nil, s.fail(ctx, span, userID, "model_error", err)
	}

	assessment, err := s.parse(reply)
	if err != nil {
		return nil, s.fail(ctx, span, userID, "invalid_output", err)
	}

	if s.metrics != nil {
		s.metrics.IncrementAssessment("success")
		s.metrics.IncrementRiskLevel(string(assessment.OverallRiskLevel))
	}
	span.SetAttributes(
		attribute.String("compliance.risk_level", string(assessment.OverallRiskLevel)),
		attribute.Int("compliance.flagged_issues", len(assessment.FlaggedIssues)),
	)
	s.emitAudit(ctx, userID, string(assessment.OverallRiskLevel))
	return assessment, nil
}

func (s *Service) parse(reply string) (*models.Assessment, error) {
	raw := llm.ExtractJSON(reply)
	if raw == "" {
		return nil, errInvalidOutput
	}
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidOutput, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", errInvalidOutput, strings.Join(msgs, "; "))
	}
	var out models.Assessment
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidOutput, err)
	}
	if out.FlaggedIssues == nil {
		out.FlaggedIssues = []string{}
	}
	return &out, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, userID id.UserID, result string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, result)
	if s.metrics != nil {
		s.metrics.IncrementAssessment(result)
	}
	s.logger.ErrorContext(ctx, "compliance assessment failed",
		"user_id", userID,
		"result", result,
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeUnavailable, models.MessageAssessmentFailed)
}

func (s *Service) emitAudit(ctx context.Context, userID id.UserID, level string) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  userID,
		Subject: userID.String(),
		Action:  string(audit.EventComplianceAssessed),
		Reason:  level,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", audit.EventComplianceAssessed, "error", err)
	}
}
