// Package service implements the application draft tracker: the single
// owner of draft progress, status and persistence.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nova19-exe/eBhutanza/internal/application/metrics"
	"github.com/nova19-exe/eBhutanza/internal/application/models"
	"github.com/nova19-exe/eBhutanza/internal/application/store"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/sentinel"
)

type DraftStore interface {
	Load(ctx context.Context, userID id.UserID) (store.Entries, error)
	Save(ctx context.Context, profile models.ApplicantProfile) error
	SaveEntries(ctx context.Context, userID id.UserID, entries store.Entries) error
	Clear(ctx context.Context, userID id.UserID) error
	ClearLegacy(ctx context.Context) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Notifier is told about first-time submissions.
type Notifier interface {
	NotifySubmitted(ctx context.Context, profile models.ApplicantProfile) error
}

// Tracker owns the applicant's draft.
type Tracker struct {
	drafts         DraftStore
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	notifier       Notifier
	tracer         trace.Tracer
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(t *Tracker) {
		t.auditPublisher = publisher
	}
}

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) {
		t.notifier = n
	}
}

// New constructs a Tracker.
func New(drafts DraftStore, opts ...Option) *Tracker {
	t := &Tracker{
		drafts: drafts,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer("ebhutanza/application"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// LoadDraft restores the user's draft. Nothing stored, or a stored payload
// that does not parse, yields the empty profile. Only an unreachable store
// is reported as an error.
func (t *Tracker) LoadDraft(ctx context.Context, userID id.UserID) (models.ApplicantProfile, error) {
	ctx, span := t.tracer.Start(ctx, "application.LoadDraft")
	defer span.End()
	if t.metrics != nil {
		defer t.metrics.ObserveLoad(time.Now())
	}

	if userID.IsNil() {
		return models.ApplicantProfile{}, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}

	entries, err := t.drafts.Load(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		t.logger.ErrorContext(ctx, "failed to load draft",
			"user_id", userID,
			"error", err,
		)
		return models.ApplicantProfile{}, translateStoreError(err, "draft storage is unavailable")
	}

	profile, ok := t.profileFrom(ctx, userID, entries)
	if !ok {
		return models.EmptyProfile(userID), nil
	}
	if entries.FromLegacy() {
		span.SetAttributes(attribute.Bool("draft.legacy", true))
		t.tryClaimLegacy(ctx, userID, entries)
	}
	span.SetAttributes(
		attribute.Int("draft.progress", profile.ProgressPercent),
		attribute.String("draft.status", profile.StatusKey.String()),
	)
	return profile, nil
}

// profileFrom derives the profile from raw entries. ok is false when the
// stored data does not parse.
func (t *Tracker) profileFrom(ctx context.Context, userID id.UserID, entries store.Entries) (models.ApplicantProfile, bool) {
	profile := models.EmptyProfile(userID)
	if entries.Empty() {
		return profile, true
	}

	if entries.Data.Found {
		fields, marker, err := store.DecodeDraft(entries.Data.Value)
		if err != nil {
			t.logger.WarnContext(ctx, "stored draft is malformed, treating as empty",
				"user_id", userID,
				"legacy", entries.Data.Legacy,
				"error", err,
			)
			if t.metrics != nil {
				t.metrics.IncrementMalformed()
			}
			return profile, false
		}
		profile.Fields = fields
		profile.PassportFileName = marker
	}

	var previous models.StatusKey
	if entries.Status.Found {
		previous, _ = models.ParseStatusKey(entries.Status.Value)
	}

	// The stored progress is only authoritative once submitted, where it is
	// pinned at 100 regardless of the fields.
	profile.ProgressPercent = models.ComputeProgress(profile.Fields, profile.PassportFileName)
	if previous.IsSubmitted() && entries.Progress.Found {
		if p, err := store.DecodeProgress(entries.Progress.Value); err == nil {
			profile.ProgressPercent = p
		} else {
			t.logger.WarnContext(ctx, "stored progress is malformed, recomputing",
				"user_id", userID,
				"error", err,
			)
		}
	}
	profile.StatusKey = models.DeriveStatus(profile.ProgressPercent, previous)
	return profile, true
}

// RecordFieldChange applies a complete form snapshot. A failed write does not
// fail the change: the outcome carries the computed profile with Persisted
// false and a notice for the user.
func (t *Tracker) RecordFieldChange(ctx context.Context, userID id.UserID, fields models.Fields, marker *string) (models.ChangeOutcome, error) {
	ctx, span := t.tracer.Start(ctx, "application.RecordFieldChange")
	defer span.End()

	if userID.IsNil() {
		return models.ChangeOutcome{}, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}
	if !models.HasPassport(marker) {
		marker = nil
	}
	if t.metrics != nil {
		t.metrics.IncrementFieldChange()
	}

	progress := models.ComputeProgress(fields, marker)
	profile := models.ApplicantProfile{
		UserID:           userID,
		Fields:           fields,
		PassportFileName: marker,
		ProgressPercent:  progress,
	}

	entries, err := t.drafts.Load(ctx, userID)
	if err != nil {
		// Without the previous status a write could downgrade a submitted
		// draft, so nothing is written and the status is left unknown.
		return t.notPersisted(ctx, span, "record_change", profile, err), nil
	}
	profile.StatusKey = models.DeriveStatus(progress, t.previousStatus(ctx, userID, entries))
	span.SetAttributes(
		attribute.Int("draft.progress", progress),
		attribute.String("draft.status", profile.StatusKey.String()),
	)

	if err := t.save(ctx, profile); err != nil {
		return t.notPersisted(ctx, span, "record_change", profile, err), nil
	}
	return models.ChangeOutcome{Profile: profile, Persisted: true}, nil
}

// Submit locks the draft at 100% and submittedForReview whatever the field
// completeness. The stored passport marker is kept. Repeating it yields the
// same state.
func (t *Tracker) Submit(ctx context.Context, userID id.UserID, fields models.Fields) (models.ChangeOutcome, error) {
	ctx, span := t.tracer.Start(ctx, "application.Submit")
	defer span.End()

	if userID.IsNil() {
		return models.ChangeOutcome{}, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}
	if t.metrics != nil {
		t.metrics.IncrementSubmission()
	}

	profile := models.ApplicantProfile{
		UserID:          userID,
		Fields:          fields,
		ProgressPercent: 100,
		StatusKey:       models.StatusSubmittedForReview,
	}

	entries, err := t.drafts.Load(ctx, userID)
	if err != nil {
		return t.notPersisted(ctx, span, "submit", profile, err), nil
	}
	if entries.Data.Found {
		if _, marker, err := store.DecodeDraft(entries.Data.Value); err == nil {
			profile.PassportFileName = marker
		}
	}
	previous := t.previousStatus(ctx, userID, entries)

	if err := t.save(ctx, profile); err != nil {
		return t.notPersisted(ctx, span, "submit", profile, err), nil
	}

	if !previous.IsSubmitted() {
		t.logger.InfoContext(ctx, "application submitted for review",
			"user_id", userID,
		)
		t.emitAudit(ctx, userID, audit.EventDraftSubmitted)
		t.notifySubmitted(ctx, profile)
	}
	return models.ChangeOutcome{Profile: profile, Persisted: true}, nil
}

// NewDraft starts over with an empty draft. This is the only way out of the
// submitted state. The empty draft is written rather than the keys deleted
// so that legacy global keys cannot shadow it.
func (t *Tracker) NewDraft(ctx context.Context, userID id.UserID) (models.ApplicantProfile, error) {
	ctx, span := t.tracer.Start(ctx, "application.NewDraft")
	defer span.End()

	if userID.IsNil() {
		return models.ApplicantProfile{}, dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}

	profile := models.EmptyProfile(userID)
	if err := t.save(ctx, profile); err != nil {
		span.RecordError(err)
		t.logger.ErrorContext(ctx, "failed to reset draft",
			"user_id", userID,
			"error", err,
		)
		if t.metrics != nil {
			t.metrics.IncrementPersistFailure("new_draft")
		}
		return models.ApplicantProfile{}, translateStoreError(err, "failed to start a new draft")
	}
	if t.metrics != nil {
		t.metrics.IncrementReset()
	}
	t.emitAudit(ctx, userID, audit.EventDraftReset)
	return profile, nil
}

// MigrateLegacy claims the legacy global draft for userID, if one exists.
func (t *Tracker) MigrateLegacy(ctx context.Context, userID id.UserID) (bool, error) {
	if userID.IsNil() {
		return false, dErrors.New(dErrors.CodeInvalidInput, "user is required")
	}
	entries, err := t.drafts.Load(ctx, userID)
	if err != nil {
		return false, translateStoreError(err, "draft storage is unavailable")
	}
	if !entries.FromLegacy() {
		return false, nil
	}
	if err := t.claimLegacy(ctx, userID, entries); err != nil {
		return false, translateStoreError(err, "failed to migrate legacy draft")
	}
	return true, nil
}

// DeleteDraft removes every key the user owns. Used on account deletion.
func (t *Tracker) DeleteDraft(ctx context.Context, userID id.UserID) error {
	if err := t.drafts.Clear(ctx, userID); err != nil {
		return translateStoreError(err, "failed to delete draft")
	}
	return nil
}

// claimLegacy copies legacy values into the user's keys and then drops the
// legacy keys, so exactly one user inherits the global draft.
func (t *Tracker) claimLegacy(ctx context.Context, userID id.UserID, entries store.Entries) error {
	if err := t.drafts.SaveEntries(ctx, userID, entries); err != nil {
		return err
	}
	if err := t.drafts.ClearLegacy(ctx); err != nil {
		return err
	}
	if t.metrics != nil {
		t.metrics.IncrementMigration()
	}
	t.logger.InfoContext(ctx, "legacy draft migrated",
		"user_id", userID,
	)
	t.emitAudit(ctx, userID, audit.EventDraftMigrated)
	return nil
}

// tryClaimLegacy claims legacy entries and reports whether the claim went
// through. A failed claim is logged and otherwise ignored.
func (t *Tracker) tryClaimLegacy(ctx context.Context, userID id.UserID, entries store.Entries) bool {
	if err := t.claimLegacy(ctx, userID, entries); err != nil {
		t.logger.WarnContext(ctx, "legacy draft migration failed",
			"user_id", userID,
			"error", err,
		)
		return false
	}
	return true
}

// previousStatus is the status a change builds on. Legacy entries are
// claimed first; a legacy status counts only if the claim succeeded.
func (t *Tracker) previousStatus(ctx context.Context, userID id.UserID, entries store.Entries) models.StatusKey {
	claimed := entries.FromLegacy() && t.tryClaimLegacy(ctx, userID, entries)
	if !entries.Status.Found || (entries.Status.Legacy && !claimed) {
		return ""
	}
	previous, _ := models.ParseStatusKey(entries.Status.Value)
	return previous
}

func (t *Tracker) save(ctx context.Context, profile models.ApplicantProfile) error {
	if t.metrics != nil {
		defer t.metrics.ObserveSave(time.Now())
	}
	return t.drafts.Save(ctx, profile)
}

func (t *Tracker) notPersisted(ctx context.Context, span trace.Span, op string, profile models.ApplicantProfile, err error) models.ChangeOutcome {
	span.RecordError(err)
	span.SetStatus(codes.Error, "draft not persisted")
	t.logger.WarnContext(ctx, "draft not persisted",
		"operation", op,
		"user_id", profile.UserID,
		"error", err,
	)
	if t.metrics != nil {
		t.metrics.IncrementPersistFailure(op)
	}
	return models.ChangeOutcome{
		Profile:   profile,
		Persisted: false,
		Notice:    models.NoticeNotSaved,
	}
}

func (t *Tracker) emitAudit(ctx context.Context, userID id.UserID, event audit.AuditEvent) {
	if t.auditPublisher == nil {
		return
	}
	if err := t.auditPublisher.Emit(ctx, audit.Event{
		UserID:  userID,
		Subject: userID.String(),
		Action:  string(event),
	}); err != nil {
		t.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event,
			"user_id", userID,
			"error", err,
		)
	}
}

func (t *Tracker) notifySubmitted(ctx context.Context, profile models.ApplicantProfile) {
	if t.notifier == nil {
		return
	}
	if err := t.notifier.NotifySubmitted(ctx, profile); err != nil {
		t.logger.WarnContext(ctx, "submission notification failed",
			"user_id", profile.UserID,
			"error", err,
		)
	}
}

func translateStoreError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
