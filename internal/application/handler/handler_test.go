package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/nova19-exe/eBhutanza/internal/application/handler/mocks"
	"github.com/nova19-exe/eBhutanza/internal/application/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/application-mocks.go -package=mocks Service
type ApplicationHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	userID  id.UserID
}

func TestApplicationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ApplicationHandlerSuite))
}

func (s *ApplicationHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
	s.userID = id.NewUserID()
}

func (s *ApplicationHandlerSuite) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req = testutil.WithUserID(req, s.userID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ApplicationHandlerSuite) TestLoadRequiresUser() {
	rec := s.do(http.MethodGet, "/application", nil, false)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *ApplicationHandlerSuite) TestLoadReturnsProfile() {
	s.service.EXPECT().LoadDraft(gomock.Any(), s.userID).Return(models.ApplicantProfile{
		UserID:          s.userID,
		Fields:          models.Fields{FullName: "Tashi Delek"},
		ProgressPercent: 20,
		StatusKey:       models.StatusInProgress,
	}, nil)

	rec := s.do(http.MethodGet, "/application", nil, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(s.userID.String(), body["userId"])
	s.Equal(float64(20), body["progressPercent"])
	s.Equal("inProgress", body["statusKey"])
	s.Nil(body["passportFileName"])
	s.Equal("Tashi Delek", body["fields"].(map[string]any)["fullName"])
}

func (s *ApplicationHandlerSuite) TestLoadUnavailable() {
	s.service.EXPECT().LoadDraft(gomock.Any(), s.userID).
		Return(models.ApplicantProfile{}, dErrors.New(dErrors.CodeUnavailable, "draft storage is unavailable"))

	rec := s.do(http.MethodGet, "/application", nil, true)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *ApplicationHandlerSuite) TestRecordChangePassesSnapshot() {
	marker := "passport.pdf"
	fields := models.Fields{FullName: "Tashi Delek", Email: "t@x.bt"}
	s.service.EXPECT().
		RecordFieldChange(gomock.Any(), s.userID, fields, gomock.Any()).
		DoAndReturn(func(_ any, _ id.UserID, f models.Fields, m *string) (models.ChangeOutcome, error) {
			s.Require().NotNil(m)
			s.Equal(marker, *m)
			return models.ChangeOutcome{
				Profile:   models.ApplicantProfile{UserID: s.userID, Fields: f, PassportFileName: m, ProgressPercent: 60, StatusKey: models.StatusInProgress},
				Persisted: true,
			}, nil
		})

	rec := s.do(http.MethodPut, "/application", map[string]any{
		"fullName":         "Tashi Delek",
		"email":            "t@x.bt",
		"passportFileName": " passport.pdf ",
	}, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	var out models.ChangeOutcome
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.True(out.Persisted)
	s.Equal(60, out.Profile.ProgressPercent)
}

func (s *ApplicationHandlerSuite) TestRecordChangeNotPersistedIsStillOK() {
	s.service.EXPECT().RecordFieldChange(gomock.Any(), s.userID, gomock.Any(), gomock.Nil()).
		Return(models.ChangeOutcome{
			Profile: models.ApplicantProfile{UserID: s.userID, StatusKey: models.StatusPendingSubmission},
			Notice:  models.NoticeNotSaved,
		}, nil)

	rec := s.do(http.MethodPut, "/application", map[string]any{"fullName": ""}, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(false, body["persisted"])
	s.Equal(models.NoticeNotSaved, body["notice"])
}

func (s *ApplicationHandlerSuite) TestRecordChangeRejectsMalformedBody() {
	req := httptest.NewRequest(http.MethodPut, "/application", bytes.NewBufferString("{"))
	req = testutil.WithUserID(req, s.userID)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ApplicationHandlerSuite) TestSubmit() {
	fields := models.Fields{FullName: "Sonam"}
	s.service.EXPECT().Submit(gomock.Any(), s.userID, fields).Return(models.ChangeOutcome{
		Profile:   models.ApplicantProfile{UserID: s.userID, Fields: fields, ProgressPercent: 100, StatusKey: models.StatusSubmittedForReview},
		Persisted: true,
	}, nil)

	rec := s.do(http.MethodPost, "/application/submit", map[string]any{"fullName": "Sonam"}, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	var out models.ChangeOutcome
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Equal(models.StatusSubmittedForReview, out.Profile.StatusKey)
	s.Equal(100, out.Profile.ProgressPercent)
}

func (s *ApplicationHandlerSuite) TestNewDraft() {
	s.service.EXPECT().NewDraft(gomock.Any(), s.userID).Return(models.EmptyProfile(s.userID), nil)

	rec := s.do(http.MethodPost, "/application/new", nil, true)
	s.Require().Equal(http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"statusKey":"pendingSubmission"`)
}

func TestFieldTooLongIsValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)

	long := bytes.Repeat([]byte("a"), 600)
	body, err := json.Marshal(map[string]string{"fullName": string(long)})
	require.NoError(t, err)
	req := testutil.WithUserID(httptest.NewRequest(http.MethodPut, "/application", bytes.NewReader(body)), id.NewUserID())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}
