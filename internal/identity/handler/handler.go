package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nova19-exe/eBhutanza/internal/identity/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/httputil"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

// Service defines the identity operations the handler needs.
type Service interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.SessionResult, error)
	SignIn(ctx context.Context, req *models.SignInRequest) (*models.SessionResult, error)
	SignOut(ctx context.Context, userID id.UserID, sessionID id.SessionID, jti string) error
	CurrentUser(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.CurrentSession, error)
}

// Handler serves the /auth endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the endpoints that need no session.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/signup", h.HandleSignUp)
	r.Post("/auth/signin", h.HandleSignIn)
}

// RegisterProtected mounts the endpoints behind RequireAuth.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/signout", h.HandleSignOut)
	r.Get("/auth/session", h.HandleSession)
}

func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SignUpRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.SignUp(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "sign-up failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.SignInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	res, err := h.service.SignIn(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "sign-in failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "user signed in",
		"request_id", requestID,
		"user_id", res.User.UID,
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	if err := h.service.SignOut(ctx, userID, requestcontext.SessionID(ctx), requestcontext.TokenID(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "sign-out failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession restores the signed-in user for the presented token.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	current, err := h.service.CurrentUser(ctx, userID, requestcontext.SessionID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "session restore failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, current)
}
