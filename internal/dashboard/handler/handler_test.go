package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	"github.com/nova19-exe/eBhutanza/internal/dashboard/handler/mocks"
	"github.com/nova19-exe/eBhutanza/internal/dashboard/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/dashboard-mocks.go -package=mocks Service

func TestHandleSummary(t *testing.T) {
	svc := mocks.NewMockService(gomock.NewController(t))
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	uid := id.NewUserID()

	svc.EXPECT().Summary(gomock.Any(), uid).Return(&models.Summary{
		WelcomeName:  "Pema",
		StatusKey:    application.StatusSubmittedForReview,
		QuickActions: models.QuickActionsFor(application.StatusSubmittedForReview),
	}, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUserID(httptest.NewRequest(http.MethodGet, "/dashboard", nil), uid))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"welcomeName":"Pema"`)

	svc.EXPECT().Summary(gomock.Any(), id.UserID{}).Return(nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
