// Package requestcontext carries request-scoped values through context so
// services can read the caller, request ID and request time without
// importing net/http. Middleware populates it; tests inject values directly.
package requestcontext

import (
	"context"
	"time"

	id "github.com/nova19-exe/eBhutanza/pkg/domain"
)

type key int

const (
	userIDKey key = iota
	sessionIDKey
	tokenIDKey
	clientIPKey
	userAgentKey
	requestIDKey
	requestTimeKey
)

// value returns the zero T when k is unset.
func value[T any](ctx context.Context, k key) T {
	v, _ := ctx.Value(k).(T)
	return v
}

// UserID is the authenticated applicant, or the nil ID.
func UserID(ctx context.Context) id.UserID { return value[id.UserID](ctx, userIDKey) }

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func SessionID(ctx context.Context) id.SessionID { return value[id.SessionID](ctx, sessionIDKey) }

func WithSessionID(ctx context.Context, sessionID id.SessionID) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// TokenID is the jti of the bearer token that authenticated the request.
func TokenID(ctx context.Context) string { return value[string](ctx, tokenIDKey) }

func WithTokenID(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, tokenIDKey, jti)
}

func ClientIP(ctx context.Context) string  { return value[string](ctx, clientIPKey) }
func UserAgent(ctx context.Context) string { return value[string](ctx, userAgentKey) }

// WithClientMetadata sets both client IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

func RequestID(ctx context.Context) string { return value[string](ctx, requestIDKey) }

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// Now is the time the request arrived. Outside a request (CLI, async audit
// writers) it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
