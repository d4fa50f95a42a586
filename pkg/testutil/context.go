package testutil

import (
	"net/http"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

// WithUserID simulates the auth middleware for handler tests that skip it.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithAuth injects user, session and token IDs.
func WithAuth(req *http.Request, userID id.UserID, sessionID id.SessionID, jti string) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithSessionID(ctx, sessionID)
	ctx = requestcontext.WithTokenID(ctx, jti)
	return req.WithContext(ctx)
}
