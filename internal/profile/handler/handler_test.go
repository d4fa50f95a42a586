package handler

import (
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

	"github.com/nova19-exe/eBhutanza/internal/profile/handler/mocks"
	"github.com/nova19-exe/eBhutanza/internal/profile/models"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	dErrors "github.com/nova19-exe/eBhutanza/pkg/domain-errors"
	"github.com/nova19-exe/eBhutanza/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/profile-mocks.go -package=mocks Service

func setup(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	svc := mocks.NewMockService(gomock.NewController(t))
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, svc
}

func TestHandleGet(t *testing.T) {
	r, svc := setup(t)
	uid := id.NewUserID()
	svc.EXPECT().Get(gomock.Any(), uid).Return(&models.Profile{UID: uid, DisplayName: "Karma"}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUserID(httptest.NewRequest(http.MethodGet, "/profile", nil), uid))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"Karma"`)
}

func TestHandleUpdateRevertedPhoto(t *testing.T) {
	r, svc := setup(t)
	uid := id.NewUserID()
	svc.EXPECT().Update(gomock.Any(), uid, gomock.Any()).Return(&models.UpdateResult{
		Provisional: models.Profile{UID: uid, DisplayName: "Karma W"},
		Confirmed:   models.Profile{UID: uid, DisplayName: "Karma W"},
		PhotoStatus: models.PhotoReverted,
		Notice:      models.NoticePhotoNotSaved,
	}, nil)

	body := strings.NewReader(`{"displayName":"Karma W"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUserID(httptest.NewRequest(http.MethodPut, "/profile", body), uid))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"photoStatus":"reverted"`)
}

func TestHandleUpdateErrors(t *testing.T) {
	r, svc := setup(t)
	uid := id.NewUserID()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUserID(httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"displayName":"K"}`)), uid))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.EXPECT().Update(gomock.Any(), uid, gomock.Any()).Return(nil, dErrors.New(dErrors.CodeUnavailable, "failed to update account"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, testutil.WithUserID(httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"displayName":"Karma"}`)), uid))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
