package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/features/banners/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBannerService is a mock implementation of ports.BannerService
type MockBannerService struct {
	mock.Mock
}

func (m *MockBannerService) Set(ctx context.Context, slides []domain.Slide, interval, duration int) (*domain.Carousel, error) {
	args := m.Called(ctx, slides, interval, duration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Carousel), args.Error(1)
}

func (m *MockBannerService) Get(ctx context.Context) (*domain.Carousel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Carousel), args.Error(1)
}

func (m *MockBannerService) Remove(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setupApp(service *MockBannerService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.FiberErrorHandler})
	handler := NewBannerHandler(service)
	app.Get("/api/banner", handler.Get)
	app.Put("/api/admin/banner", handler.Set)
	app.Delete("/api/admin/banner", handler.Remove)
	return app
}

func TestBannerHandler_Set(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBannerService)
		app := setupApp(mockService)

		reqBody := SetCarouselRequest{
			Slides:          []domain.Slide{{Image: "a.jpg", Title: "Sale", Link: "/products"}},
			IntervalSeconds: 6,
			Duration:        3600,
		}
		body, _ := json.Marshal(reqBody)

		mockService.On("Set", mock.Anything, reqBody.Slides, 6, 3600).
			Return(&domain.Carousel{Slides: reqBody.Slides, IntervalSeconds: 6, Duration: 3600}, nil).Once()

		req := httptest.NewRequest("PUT", "/api/admin/banner", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("NoSlides", func(t *testing.T) {
		mockService := new(MockBannerService)
		app := setupApp(mockService)

		mockService.On("Set", mock.Anything, mock.Anything, 0, 0).Return(nil, domain.ErrNoSlides).Once()

		req := httptest.NewRequest("PUT", "/api/admin/banner", bytes.NewReader([]byte(`{"slides": []}`)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var errResp respond.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, "CAROUSEL_EMPTY", errResp.Code)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		mockService := new(MockBannerService)
		app := setupApp(mockService)

		req := httptest.NewRequest("PUT", "/api/admin/banner", bytes.NewReader([]byte("invalid json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestBannerHandler_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockBannerService)
		app := setupApp(mockService)

		expected := &domain.Carousel{Slides: []domain.Slide{{Image: "a.jpg"}}, IntervalSeconds: 5}
		mockService.On("Get", mock.Anything).Return(expected, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/banner", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var carousel domain.Carousel
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&carousel))
		assert.Equal(t, "a.jpg", carousel.Slides[0].Image)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockBannerService)
		app := setupApp(mockService)

		mockService.On("Get", mock.Anything).Return(nil, fmt.Errorf("carousel: %w", apperror.ErrNotFound)).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/banner", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("StoreError", func(t *testing.T) {
		mockService := new(MockBannerService)
		app := setupApp(mockService)

		mockService.On("Get", mock.Anything).Return(nil, errors.New("redis down")).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/banner", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestBannerHandler_Remove(t *testing.T) {
	mockService := new(MockBannerService)
	app := setupApp(mockService)

	mockService.On("Remove", mock.Anything).Return(nil).Once()

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/admin/banner", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockService.AssertExpectations(t)
}
