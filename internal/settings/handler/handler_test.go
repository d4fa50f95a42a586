package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/nova19-exe/eBhutanza/internal/settings/handler/mocks"
	"github.com/nova19-exe/eBhutanza/internal/settings/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/settings-mocks.go -package=mocks Service

type SettingsHandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	svc    *mocks.MockService
	router chi.Router
	userID id.UserID
}

func TestSettingsHandlerSuite(t *testing.T) {
	suite.Run(t, new(SettingsHandlerSuite))
}

func (s *SettingsHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
	s.userID = id.NewUserID()
}

func (s *SettingsHandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, testutil.WithUserID(req, s.userID))
	return rec
}

func (s *SettingsHandlerSuite) TestGetPreferences() {
	s.svc.EXPECT().GetPreferences(gomock.Any(), s.userID).Return(models.DefaultPreferences(), nil)
	rec := s.do(http.MethodGet, "/settings/preferences", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"theme":"dark"`)
}

func (s *SettingsHandlerSuite) TestUpdatePreferences() {
	prefs := models.DefaultPreferences()
	prefs.Language = models.LanguageDzongkha
	s.svc.EXPECT().UpdatePreferences(gomock.Any(), s.userID, gomock.Any()).Return(prefs, nil)
	rec := s.do(http.MethodPut, "/settings/preferences", `{"language":"dz"}`)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"language":"dz"`)

	rec = s.do(http.MethodPut, "/settings/preferences", `{"theme":"sepia"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *SettingsHandlerSuite) TestChangePassword() {
	rec := s.do(http.MethodPost, "/settings/password", `{"currentPassword":"old-password","newPassword":"new-password","confirmPassword":"other-password"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "Passwords don't match.")

	s.svc.EXPECT().ChangePassword(gomock.Any(), s.userID, gomock.Any()).
		Return(dErrors.New(dErrors.CodeUnauthorized, "Current password is incorrect."))
	rec = s.do(http.MethodPost, "/settings/password", `{"currentPassword":"wrong-password","newPassword":"new-password","confirmPassword":"new-password"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)

	s.svc.EXPECT().ChangePassword(gomock.Any(), s.userID, gomock.Any()).Return(nil)
	rec = s.do(http.MethodPost, "/settings/password", `{"currentPassword":"old-password","newPassword":"new-password","confirmPassword":"new-password"}`)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *SettingsHandlerSuite) TestExport() {
	s.svc.EXPECT().Export(gomock.Any(), s.userID).Return(&models.Export{Preferences: models.DefaultPreferences()}, nil)
	rec := s.do(http.MethodGet, "/settings/export", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "attachment")
}

func (s *SettingsHandlerSuite) TestDeleteAccount() {
	s.svc.EXPECT().DeleteAccount(gomock.Any(), s.userID, gomock.Any(), gomock.Any()).Return(nil)
	rec := s.do(http.MethodDelete, "/settings/account", "")
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *SettingsHandlerSuite) TestUnauthenticated() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/settings/account", nil))
	s.Equal(http.StatusUnauthorized, rec.Code)
}
