package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nova19-exe/eBhutanza/internal/settings/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/httputil"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

// Service defines the settings operations the handler needs.
type Service interface {
	GetPreferences(ctx context.Context, userID id.UserID) (models.Preferences, error)
	UpdatePreferences(ctx context.Context, userID id.UserID, req *models.UpdatePreferencesRequest) (models.Preferences, error)
	ChangePassword(ctx context.Context, userID id.UserID, req *models.ChangePasswordRequest) error
	Export(ctx context.Context, userID id.UserID) (*models.Export, error)
	DeleteAccount(ctx context.Context, userID id.UserID, sessionID id.SessionID, jti string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/settings/preferences", h.HandleGetPreferences)
	r.Put("/settings/preferences", h.HandleUpdatePreferences)
	r.Post("/settings/password", h.HandleChangePassword)
	r.Get("/settings/export", h.HandleExport)
	r.Delete("/settings/account", h.HandleDeleteAccount)
}

func (h *Handler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	prefs, err := h.service.GetPreferences(ctx, userID)
	if err != nil {
		h.logError(ctx, "failed to load preferences", userID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prefs)
}

func (h *Handler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdatePreferencesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	prefs, err := h.service.UpdatePreferences(ctx, userID, req)
	if err != nil {
		h.logError(ctx, "failed to update preferences", userID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prefs)
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ChangePasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.ChangePassword(ctx, userID, req); err != nil {
		h.logError(ctx, "failed to change password", userID, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport serves the export as a download.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	export, err := h.service.Export(ctx, userID)
	if err != nil {
		h.logError(ctx, "failed to export user data", userID, err)
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="ebhutanza-export.json"`)
	httputil.WriteJSON(w, http.StatusOK, export)
}

func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sessionID := requestcontext.SessionID(ctx)
	if err := h.service.DeleteAccount(ctx, userID, sessionID, requestcontext.TokenID(ctx)); err != nil {
		h.logError(ctx, "failed to delete account", userID, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logError(ctx context.Context, msg string, userID id.UserID, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"error", err,
	)
}

func requireUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}
