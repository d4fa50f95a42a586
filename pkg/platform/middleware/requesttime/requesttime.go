// Package requesttime pins a single "now" per request so draft timestamps,
// audit events and token expiry all agree.
package requesttime

import (
	"net/http"
	"time"

	"github.com/nova19-exe/eBhutanza/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
