// Package auth provides bearer-token middleware for identified callers.
// Hosts and audience members authenticate with a JWT; guests never do. A
// guest link is the only credential they hold, so guest endpoints use
// Optional instead of Require.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "livegate/pkg/domain"
	"livegate/pkg/requestcontext"
)

// TokenValidator validates an API bearer token and returns the user it
// identifies.
type TokenValidator interface {
	ValidateToken(tokenString string) (id.UserID, error)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// Require rejects requests without a valid bearer token and stores the user
// ID in the context on success.
func Require(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(validator, logger, w, r)
			if !ok {
				return
			}
			if userID.IsNil() {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			ctx := requestcontext.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional authenticates the caller when a bearer token is present but lets
// anonymous requests through. Admission for guests relies on this: the guest
// link, not the bearer token, is their credential.
func Optional(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(validator, logger, w, r)
			if !ok {
				return
			}
			ctx := r.Context()
			if !userID.IsNil() {
				ctx = requestcontext.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate resolves the bearer token if present. Returns ok=false only
// when a token was supplied and rejected (response already written).
func authenticate(validator TokenValidator, logger *slog.Logger, w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	authHeader := r.Header.Get("Authorization")
	const bearerPrefix = "Bearer "
	token, hasToken := strings.CutPrefix(authHeader, bearerPrefix)
	if !hasToken {
		return id.UserID{}, true
	}

	userID, err := validator.ValidateToken(token)
	if err != nil {
		ctx := r.Context()
		logger.WarnContext(ctx, "unauthorized access - invalid token",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
		return id.UserID{}, false
	}
	return userID, true
}
