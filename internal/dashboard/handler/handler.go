package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nova19-exe/eBhutanza/internal/dashboard/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/httputil"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

type Service interface {
	Summary(ctx context.Context, userID id.UserID) (*models.Summary, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.HandleSummary)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	summary, err := h.service.Summary(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build dashboard",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
