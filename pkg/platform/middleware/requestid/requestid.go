// Package requestid assigns each request a correlation ID, honoring an
// incoming X-Request-ID header when present.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"livegate/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware reads or generates a request ID, echoes it on the response, and
// stores it in the context for log correlation.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerName)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerName, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
