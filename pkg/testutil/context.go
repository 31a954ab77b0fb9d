package testutil

import (
	"context"
	"time"

	id "livegate/pkg/domain"
	"livegate/pkg/requestcontext"
)

// AuthedContext returns a context carrying an authenticated user, matching
// what the auth middleware would set.
func AuthedContext(userID id.UserID) context.Context {
	return requestcontext.WithUserID(context.Background(), userID)
}

// ContextAt returns a context pinned to a fixed request time.
func ContextAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}
