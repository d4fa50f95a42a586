package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nova19-exe/eBhutanza/internal/application/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/httputil"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

// Service defines the draft tracker operations the handler needs.
type Service interface {
	LoadDraft(ctx context.Context, userID id.UserID) (models.ApplicantProfile, error)
	RecordFieldChange(ctx context.Context, userID id.UserID, fields models.Fields, marker *string) (models.ChangeOutcome, error)
	Submit(ctx context.Context, userID id.UserID, fields models.Fields) (models.ChangeOutcome, error)
	NewDraft(ctx context.Context, userID id.UserID) (models.ApplicantProfile, error)
}

// Handler wires the application form endpoints to the tracker.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the application endpoints. Callers wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/application", h.HandleLoad)
	r.Put("/application", h.HandleRecordChange)
	r.Post("/application/submit", h.HandleSubmit)
	r.Post("/application/new", h.HandleNewDraft)
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

// HandleLoad handles GET /application.
func (h *Handler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.service.LoadDraft(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load draft",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

// HandleRecordChange handles PUT /application. A draft that could not be
// saved is still a 200: the body says persisted=false and carries a notice.
func (h *Handler) HandleRecordChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.RecordChangeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.RecordFieldChange(ctx, userID, req.Fields(), req.PassportFileName)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record field change",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !outcome.Persisted {
		h.logger.WarnContext(ctx, "draft change not persisted",
			"request_id", requestID,
			"user_id", userID,
		)
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// HandleSubmit handles POST /application/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.Submit(ctx, userID, req.Fields())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to submit application",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "application submit handled",
		"request_id", requestID,
		"user_id", userID,
		"persisted", outcome.Persisted,
	)
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// HandleNewDraft handles POST /application/new.
func (h *Handler) HandleNewDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.service.NewDraft(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start new draft",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}
