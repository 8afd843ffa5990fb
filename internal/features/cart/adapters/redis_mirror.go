package adapter

import (
	"context"
	"fmt"
	"time"

	"storefront-gateway/internal/core/cache"
	"storefront-gateway/internal/features/cart/domain"
)

// RedisMirror implements ports.CartMirror on the cache port.
type RedisMirror struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRedisMirror creates a new RedisMirror.
func NewRedisMirror(c cache.Cache, ttl time.Duration) *RedisMirror {
	return &RedisMirror{cache: c, ttl: ttl}
}

func mirrorKey(userID string) string {
	return "cart:" + userID
}

// Load returns the mirrored cart. The bool result is false when none is stored.
func (r *RedisMirror) Load(ctx context.Context, userID string) (*domain.Cart, bool, error) {
	cart, ok, err := cache.GetJSON[domain.Cart](ctx, r.cache, mirrorKey(userID))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load cart mirror: %w", err)
	}
	return cart, ok, nil
}

// Store replaces the mirrored cart and restarts its TTL.
func (r *RedisMirror) Store(ctx context.Context, userID string, c *domain.Cart) error {
	if err := cache.SetJSON(ctx, r.cache, mirrorKey(userID), c, r.ttl); err != nil {
		return fmt.Errorf("failed to store cart mirror: %w", err)
	}
	return nil
}

// Clear removes the mirrored cart.
func (r *RedisMirror) Clear(ctx context.Context, userID string) error {
	if err := r.cache.Delete(ctx, mirrorKey(userID)); err != nil {
		return fmt.Errorf("failed to clear cart mirror: %w", err)
	}
	return nil
}
