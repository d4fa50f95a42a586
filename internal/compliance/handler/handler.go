package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nova19-exe/eBhutanza/internal/compliance/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/platform/httputil"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

type Service interface {
	Assess(ctx context.Context, userID id.UserID, req *models.AssessRequest) (*models.Assessment, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/compliance/assess", h.HandleAssess)
}

// HandleAssess handles POST /compliance/assess.
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.AssessRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	assessment, err := h.service.Assess(ctx, userID, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "compliance assessment failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, assessment)
}
