package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nova19-exe/eBhutanza/internal/compliance/handler/mocks"
	"github.com/nova19-exe/eBhutanza/internal/compliance/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/compliance-mocks.go -package=mocks Service

func setup(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	svc := mocks.NewMockService(gomock.NewController(t))
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, svc
}

func assessBody(t *testing.T, data string) io.Reader {
	t.Helper()
	b, err := json.Marshal(models.AssessRequest{ApplicantData: data})
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

func TestHandleAssess(t *testing.T) {
	r, svc := setup(t)
	uid := id.NewUserID()
	svc.EXPECT().Assess(gomock.Any(), uid, gomock.Any()).Return(&models.Assessment{
		RiskAssessmentSummary: "Low exposure.",
		FlaggedIssues:         []string{},
		OverallRiskLevel:      models.RiskLow,
	}, nil)

	req := testutil.WithUserID(httptest.NewRequest(http.MethodPost, "/compliance/assess", assessBody(t, strings.Repeat("a", 60))), uid)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"overallRiskLevel":"low"`)
}

func TestHandleAssessShortInput(t *testing.T) {
	r, _ := setup(t)
	req := testutil.WithUserID(httptest.NewRequest(http.MethodPost, "/compliance/assess", assessBody(t, "short")), id.NewUserID())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 50 characters")
}

func TestHandleAssessFailure(t *testing.T) {
	r, svc := setup(t)
	uid := id.NewUserID()
	svc.EXPECT().Assess(gomock.Any(), uid, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, models.MessageAssessmentFailed))

	req := testutil.WithUserID(httptest.NewRequest(http.MethodPost, "/compliance/assess", assessBody(t, strings.Repeat("a", 60))), uid)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), models.MessageAssessmentFailed)
}
