package ports

import (
	"context"

	"storefront-gateway/internal/features/banners/domain"
)

// BannerService defines the primary port for the home carousel.
type BannerService interface {
	Set(ctx context.Context, slides []domain.Slide, interval, duration int) (*domain.Carousel, error)
	Get(ctx context.Context) (*domain.Carousel, error)
	Remove(ctx context.Context) error
}

// BannerRepository defines the secondary port for carousel storage.
// Get returns nil, nil when nothing is stored.
type BannerRepository interface {
	Save(ctx context.Context, carousel *domain.Carousel) error
	Get(ctx context.Context) (*domain.Carousel, error)
	Delete(ctx context.Context) error
}
