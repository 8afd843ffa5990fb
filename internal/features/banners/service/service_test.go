package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/features/banners/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBannerRepository is a mock implementation of ports.BannerRepository
type MockBannerRepository struct {
	mock.Mock
}

func (m *MockBannerRepository) Save(ctx context.Context, carousel *domain.Carousel) error {
	args := m.Called(ctx, carousel)
	return args.Error(0)
}

func (m *MockBannerRepository) Get(ctx context.Context) (*domain.Carousel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Carousel), args.Error(1)
}

func (m *MockBannerRepository) Delete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestBannerService_Set(t *testing.T) {
	mockRepo := new(MockBannerRepository)
	service := NewBannerService(mockRepo)
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	ctx := context.Background()
	slides := []domain.Slide{{Image: "a.jpg", Title: "Sale"}}

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("Save", ctx, mock.MatchedBy(func(c *domain.Carousel) bool {
			return len(c.Slides) == 1 && c.UpdatedAt.Equal(now) && c.IntervalSeconds == 7
		})).Return(nil).Once()

		carousel, err := service.Set(ctx, slides, 7, 0)
		require.NoError(t, err)
		assert.Equal(t, "Sale", carousel.Slides[0].Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NoSlides", func(t *testing.T) {
		_, err := service.Set(ctx, nil, 5, 0)
		assert.ErrorIs(t, err, domain.ErrNoSlides)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo.On("Save", ctx, mock.AnythingOfType("*domain.Carousel")).Return(errors.New("redis down")).Once()

		_, err := service.Set(ctx, slides, 5, 0)
		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestBannerService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mockRepo := new(MockBannerRepository)
		expected := &domain.Carousel{Slides: []domain.Slide{{Image: "a.jpg"}}}
		mockRepo.On("Get", ctx).Return(expected, nil).Once()

		carousel, err := NewBannerService(mockRepo).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, carousel)
	})

	t.Run("NotSet", func(t *testing.T) {
		mockRepo := new(MockBannerRepository)
		mockRepo.On("Get", ctx).Return(nil, nil).Once()

		_, err := NewBannerService(mockRepo).Get(ctx)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("RepoError", func(t *testing.T) {
		mockRepo := new(MockBannerRepository)
		mockRepo.On("Get", ctx).Return(nil, errors.New("redis down")).Once()

		_, err := NewBannerService(mockRepo).Get(ctx)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestBannerService_Remove(t *testing.T) {
	mockRepo := new(MockBannerRepository)
	ctx := context.Background()

	mockRepo.On("Delete", ctx).Return(nil).Once()
	assert.NoError(t, NewBannerService(mockRepo).Remove(ctx))

	mockRepo.On("Delete", ctx).Return(errors.New("redis down")).Once()
	assert.Error(t, NewBannerService(mockRepo).Remove(ctx))
}
