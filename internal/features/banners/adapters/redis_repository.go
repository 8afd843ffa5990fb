package adapter

import (
	"context"
	"fmt"

	"storefront-gateway/internal/core/cache"
	"storefront-gateway/internal/features/banners/domain"
)

const carouselKey = "home:carousel"

// RedisBannerRepository implements ports.BannerRepository on the cache port.
type RedisBannerRepository struct {
	cache cache.Cache
}

// NewRedisBannerRepository creates a new RedisBannerRepository.
func NewRedisBannerRepository(c cache.Cache) *RedisBannerRepository {
	return &RedisBannerRepository{cache: c}
}

// Save stores the carousel until its duration runs out.
func (r *RedisBannerRepository) Save(ctx context.Context, carousel *domain.Carousel) error {
	if err := cache.SetJSON(ctx, r.cache, carouselKey, carousel, carousel.TTL()); err != nil {
		return fmt.Errorf("failed to save carousel: %w", err)
	}
	return nil
}

// Get loads the carousel.
func (r *RedisBannerRepository) Get(ctx context.Context) (*domain.Carousel, error) {
	carousel, found, err := cache.GetJSON[domain.Carousel](ctx, r.cache, carouselKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get carousel: %w", err)
	}
	if !found {
		return nil, nil
	}
	return carousel, nil
}

// Delete removes the carousel.
func (r *RedisBannerRepository) Delete(ctx context.Context) error {
	if err := r.cache.Delete(ctx, carouselKey); err != nil {
		return fmt.Errorf("failed to delete carousel: %w", err)
	}
	return nil
}
