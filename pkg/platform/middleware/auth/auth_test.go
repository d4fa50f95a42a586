package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) { return s.claims, s.err }

type stubRevocations map[string]bool

func (s stubRevocations) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	return s[jti], nil
}

type failingRevocations struct{}

func (failingRevocations) IsTokenRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type stubSessions struct {
	stubRevocations
	open map[string]bool
	err  error
}

func (s stubSessions) IsSessionActive(_ context.Context, sessionID string) (bool, error) {
	return s.open[sessionID], s.err
}

func serve(t *testing.T, v JWTValidator, rc TokenRevocationChecker, header string) (*httptest.ResponseRecorder, id.UserID) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	var seen id.UserID
	h := RequireAuth(v, rc, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/application", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth(t *testing.T) {
	userID := id.NewUserID()
	valid := stubValidator{claims: &JWTClaims{UserID: userID.String(), SessionID: id.NewSessionID().String(), JTI: "jti-1"}}

	t.Run("missing header", func(t *testing.T) {
		rec, _ := serve(t, valid, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec, _ := serve(t, stubValidator{err: errors.New("bad sig")}, nil, "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token injects user", func(t *testing.T) {
		rec, seen := serve(t, valid, stubRevocations{}, "Bearer x")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, seen)
	})

	t.Run("revoked token", func(t *testing.T) {
		rec, _ := serve(t, valid, stubRevocations{"jti-1": true}, "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "revoked")
	})

	t.Run("ended session", func(t *testing.T) {
		rec, _ := serve(t, valid, stubSessions{stubRevocations: stubRevocations{}}, "Bearer x")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Session has ended")
	})

	t.Run("open session", func(t *testing.T) {
		open := stubSessions{stubRevocations: stubRevocations{}, open: map[string]bool{valid.claims.SessionID: true}}
		rec, seen := serve(t, valid, open, "Bearer x")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, seen)
	})

	t.Run("session lookup failure", func(t *testing.T) {
		rec, _ := serve(t, valid, stubSessions{stubRevocations: stubRevocations{}, err: errors.New("kv down")}, "Bearer x")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("revocation lookup failure", func(t *testing.T) {
		rec, _ := serve(t, valid, failingRevocations{}, "Bearer x")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
