package handler

import (
	"net/http"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/features/banners/domain"
	"storefront-gateway/internal/features/banners/ports"

	"github.com/gofiber/fiber/v2"
)

// BannerHandler handles HTTP requests for the home carousel.
type BannerHandler struct {
	service ports.BannerService
}

// NewBannerHandler creates a new BannerHandler.
func NewBannerHandler(service ports.BannerService) *BannerHandler {
	return &BannerHandler{service: service}
}

// SetCarouselRequest represents the request body for replacing the carousel.
type SetCarouselRequest struct {
	Slides          []domain.Slide `json:"slides"`
	IntervalSeconds int            `json:"intervalSeconds"`
	Duration        int            `json:"duration"` // Seconds
}

// Set handles PUT /api/admin/banner.
// @Summary Set the home carousel
// @Description Replaces the storefront home carousel.
// @Tags Banner
// @Accept json
// @Produce json
// @Param banner body SetCarouselRequest true "Carousel slides"
// @Success 200 {object} domain.Carousel
// @Failure 400 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/admin/banner [put]
func (h *BannerHandler) Set(c *fiber.Ctx) error {
	var req SetCarouselRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	carousel, err := h.service.Set(c.UserContext(), req.Slides, req.IntervalSeconds, req.Duration)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(carousel)
}

// Get handles GET /api/banner.
// @Summary Get the home carousel
// @Tags Banner
// @Produce json
// @Success 200 {object} domain.Carousel
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/banner [get]
func (h *BannerHandler) Get(c *fiber.Ctx) error {
	carousel, err := h.service.Get(c.UserContext())
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(carousel)
}

// Remove handles DELETE /api/admin/banner.
// @Summary Remove the home carousel
// @Tags Banner
// @Success 204
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/admin/banner [delete]
func (h *BannerHandler) Remove(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext()); err != nil {
		return respond.Error(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
