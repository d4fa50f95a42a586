package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	application "github.com/nova19-exe/eBhutanza/internal/application/models"
	"github.com/nova19-exe/eBhutanza/internal/application/service"
	"github.com/nova19-exe/eBhutanza/internal/application/store"
	"github.com/nova19-exe/eBhutanza/internal/kv/memory"
	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit"
	"github.com/nova19-exe/eBhutanza/pkg/platform/audit/publisher"
	auditmemory "github.com/nova19-exe/eBhutanza/pkg/platform/audit/store/memory"
)

type AdminHandlerSuite struct {
	suite.Suite
	ctx     context.Context
	kv      *memory.Store
	tracker *service.Tracker
	audit   *publisher.Publisher
	router  chi.Router
	userID  id.UserID
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func (s *AdminHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = memory.New()
	s.audit = publisher.NewPublisher(auditmemory.NewInMemoryStore())
	s.tracker = service.New(store.New(s.kv), service.WithAuditPublisher(s.audit))
	s.router = chi.NewRouter()
	New(s.tracker, s.audit, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
	s.userID = id.NewUserID()
}

func (s *AdminHandlerSuite) TearDownTest() {
	s.audit.Close()
}

func (s *AdminHandlerSuite) do(method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func (s *AdminHandlerSuite) TestDraftAndAudit() {
	_, err := s.tracker.Submit(s.ctx, s.userID, application.Fields{FullName: "Karma Wangchuk"})
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/admin/users/"+s.userID.String()+"/draft")
	s.Require().Equal(http.StatusOK, rec.Code)
	var draft DraftResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&draft))
	s.Equal(application.StatusSubmittedForReview, draft.Draft.StatusKey)

	rec = s.do(http.MethodGet, "/admin/users/"+s.userID.String()+"/audit")
	s.Require().Equal(http.StatusOK, rec.Code)
	var events AuditListResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&events))
	s.Require().Equal(1, events.Total)
	s.Equal(string(audit.EventDraftSubmitted), events.Events[0].Action)
}

func (s *AdminHandlerSuite) TestResetDraft() {
	_, err := s.tracker.Submit(s.ctx, s.userID, application.Fields{})
	s.Require().NoError(err)

	rec := s.do(http.MethodPost, "/admin/users/"+s.userID.String()+"/draft/reset")
	s.Require().Equal(http.StatusOK, rec.Code)
	var draft DraftResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&draft))
	s.Equal(application.StatusPendingSubmission, draft.Draft.StatusKey)
	s.Equal(0, draft.Draft.ProgressPercent)
}

func (s *AdminHandlerSuite) TestMigrateLegacy() {
	s.Require().NoError(s.kv.Set(s.ctx, store.LegacyProgressKey, "40"))

	rec := s.do(http.MethodPost, "/admin/users/"+s.userID.String()+"/draft/migrate-legacy")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"migrated":true}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/admin/users/"+s.userID.String()+"/draft/migrate-legacy")
	s.JSONEq(`{"migrated":false}`, rec.Body.String())
}

func (s *AdminHandlerSuite) TestBadUserID() {
	rec := s.do(http.MethodGet, "/admin/users/not-a-uuid/draft")
	s.Equal(http.StatusBadRequest, rec.Code)
}
