package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"storefront-gateway/internal/core/cache"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/features/dashboard/domain"
	"storefront-gateway/internal/features/dashboard/ports"

	"go.uber.org/zap"
)

const statsKeyPrefix = "dashboard:stats:"

// CachedGateway keeps the last dashboard aggregate for a short time.
// Entries are keyed by the caller's access token, so a hit is only served to a
// token the backend has already answered for.
type CachedGateway struct {
	origin ports.DashboardGateway
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedGateway wraps origin with a Redis cache.
func NewCachedGateway(origin ports.DashboardGateway, c cache.Cache, ttl time.Duration) *CachedGateway {
	return &CachedGateway{origin: origin, cache: c, ttl: ttl}
}

// Fetch returns the cached aggregate or asks the backend for a fresh one.
func (g *CachedGateway) Fetch(ctx context.Context, token string) (*domain.Stats, error) {
	key := statsKey(token)

	cached, found, err := cache.GetJSON[domain.Stats](ctx, g.cache, key)
	if err != nil {
		logger.Ctx(ctx).Warn("Dashboard cache read failed", zap.Error(err))
	}
	if found {
		return cached, nil
	}

	stats, err := g.origin.Fetch(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, g.cache, key, stats, g.ttl); err != nil {
		logger.Ctx(ctx).Warn("Dashboard cache write failed", zap.Error(err))
	}
	return stats, nil
}

func statsKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return statsKeyPrefix + hex.EncodeToString(sum[:])
}
