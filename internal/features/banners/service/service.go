package service

import (
	"context"
	"fmt"
	"time"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/features/banners/domain"
	"storefront-gateway/internal/features/banners/ports"

	"go.uber.org/zap"
)

// BannerService implements ports.BannerService.
type BannerService struct {
	repo ports.BannerRepository
	now  func() time.Time
}

// NewBannerService creates a new BannerService.
func NewBannerService(repo ports.BannerRepository) *BannerService {
	return &BannerService{repo: repo, now: time.Now}
}

// Set replaces the home carousel.
func (s *BannerService) Set(ctx context.Context, slides []domain.Slide, interval, duration int) (*domain.Carousel, error) {
	carousel, err := domain.NewCarousel(slides, interval, duration, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, carousel); err != nil {
		return nil, fmt.Errorf("service: failed to save carousel: %w", err)
	}

	logger.Ctx(ctx).Info("Home carousel updated", zap.Int("slides", len(carousel.Slides)), zap.Int("duration", carousel.Duration))
	return carousel, nil
}

// Get returns the carousel, or apperror.ErrNotFound when none is set.
func (s *BannerService) Get(ctx context.Context) (*domain.Carousel, error) {
	carousel, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get carousel: %w", err)
	}
	if carousel == nil {
		return nil, fmt.Errorf("carousel: %w", apperror.ErrNotFound)
	}
	return carousel, nil
}

// Remove deletes the carousel.
func (s *BannerService) Remove(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("service: failed to remove carousel: %w", err)
	}
	return nil
}
