// Package admin serves operator endpoints. Routes are mounted behind
// RequireAdminToken and address users by ID in the path.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/httputil"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

type Drafts interface {
	LoadDraft(ctx context.Context, userID id.UserID) (application.ApplicantProfile, error)
	NewDraft(ctx context.Context, userID id.UserID) (application.ApplicantProfile, error)
	MigrateLegacy(ctx context.Context, userID id.UserID) (bool, error)
}

type AuditLog interface {
	List(ctx context.Context, userID id.UserID) ([]audit.Event, error)
}

type Handler struct {
	drafts Drafts
	audit  AuditLog
	logger *slog.Logger
}

func New(drafts Drafts, auditLog AuditLog, logger *slog.Logger) *Handler {
	return &Handler{drafts: drafts, audit: auditLog, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/users/{userID}/audit", h.HandleAudit)
	r.Get("/admin/users/{userID}/draft", h.HandleDraft)
	r.Post("/admin/users/{userID}/draft/reset", h.HandleResetDraft)
	r.Post("/admin/users/{userID}/draft/migrate-legacy", h.HandleMigrateLegacy)
}

func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	events, err := h.audit.List(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "failed to list audit events", userID, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditListResponse{Events: events, Total: len(events)})
}

func (h *Handler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	draft, err := h.drafts.LoadDraft(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "failed to load draft", userID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DraftResponse{Draft: draft})
}

func (h *Handler) HandleResetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	draft, err := h.drafts.NewDraft(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "failed to reset draft", userID, err)
		return
	}
	h.logger.InfoContext(ctx, "draft reset by operator",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
	)
	httputil.WriteJSON(w, http.StatusOK, DraftResponse{Draft: draft})
}

func (h *Handler) HandleMigrateLegacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.userParam(w, r)
	if !ok {
		return
	}
	migrated, err := h.drafts.MigrateLegacy(ctx, userID)
	if err != nil {
		h.fail(ctx, w, "failed to migrate legacy draft", userID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MigrationResponse{Migrated: migrated})
}

func (h *Handler) userParam(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, userID id.UserID, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"error", err,
	)
	httputil.WriteError(w, err)
}
