// Package inflight keeps at most one request per action in progress.
// Each lock is a short-lived cache key owned by a random token, so a slow
// holder whose lock already expired cannot release someone else's lock.
package inflight

import (
	"context"
	"fmt"
	"time"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/cache"
	"storefront-gateway/internal/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const keyPrefix = "inflight:"

// Locker is the primary port used by services.
type Locker interface {
	Acquire(ctx context.Context, action string) (release func(), err error)
}

// Guard implements Locker on top of the cache port.
type Guard struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewGuard creates a Guard whose locks expire after ttl.
func NewGuard(c cache.Cache, ttl time.Duration) *Guard {
	return &Guard{cache: c, ttl: ttl}
}

// Acquire takes the lock for action or fails with apperror.ErrRequestInFlight.
// The returned release func is safe to call more than once.
func (g *Guard) Acquire(ctx context.Context, action string) (func(), error) {
	key := keyPrefix + action
	token := []byte(uuid.NewString())

	ok, err := g.cache.SetNX(ctx, key, token, g.ttl)
	if err != nil {
		return nil, fmt.Errorf("inflight: failed to acquire %s: %w", action, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRequestInFlight, action)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// The request context may already be cancelled by now.
		if _, err := g.cache.CompareAndDelete(context.Background(), key, token); err != nil {
			logger.Ctx(ctx).Warn("Failed to release in-flight lock", zap.String("action", action), zap.Error(err))
		}
	}, nil
}
