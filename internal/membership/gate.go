package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "livegate/pkg/domain"
	"livegate/pkg/platform/sentinel"
	"livegate/pkg/requestcontext"
)

// cacheTTL keeps the Redis cache short-lived enough that a cancelled
// subscription stops admitting within a minute.
const cacheTTL = time.Minute

// Gate answers active-subscription checks for the admission flow. An
// optional Redis cache absorbs the poll traffic from waiting rooms, which
// re-checks membership on every admission attempt.
type Gate struct {
	store  Store
	cache  redis.Cmdable
	logger *slog.Logger
}

// GateOption configures the Gate.
type GateOption func(*Gate)

// WithCache enables the Redis cache in front of the store.
func WithCache(cache redis.Cmdable) GateOption {
	return func(g *Gate) { g.cache = cache }
}

// NewGate constructs a membership gate backed by the given store.
func NewGate(store Store, logger *slog.Logger, opts ...GateOption) *Gate {
	g := &Gate{store: store, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasActiveSubscription reports whether the user holds a subscription
// covering the request time. Absence of a subscription is a plain false,
// not an error.
func (g *Gate) HasActiveSubscription(ctx context.Context, userID id.UserID) (bool, error) {
	now := requestcontext.Now(ctx)

	if g.cache != nil {
		if active, ok := g.cachedState(ctx, userID); ok {
			return active, nil
		}
	}

	sub, err := g.store.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			g.cacheState(ctx, userID, false)
			return false, nil
		}
		return false, fmt.Errorf("membership lookup: %w", err)
	}

	active := sub.ActiveAt(now)
	g.cacheState(ctx, userID, active)
	return active, nil
}

func cacheKey(userID id.UserID) string {
	return "livegate:membership:" + userID.String()
}

func (g *Gate) cachedState(ctx context.Context, userID id.UserID) (active, ok bool) {
	val, err := g.cache.Get(ctx, cacheKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			g.logger.WarnContext(ctx, "membership cache read failed", "error", err)
		}
		return false, false
	}
	return val == "1", true
}

func (g *Gate) cacheState(ctx context.Context, userID id.UserID, active bool) {
	if g.cache == nil {
		return
	}
	val := "0"
	if active {
		val = "1"
	}
	if err := g.cache.Set(ctx, cacheKey(userID), val, cacheTTL).Err(); err != nil {
		g.logger.WarnContext(ctx, "membership cache write failed", "error", err)
	}
}
