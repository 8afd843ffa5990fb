package handler

import (
	"net/http"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/core/validation"
	"storefront-gateway/internal/features/cart/domain"
	"storefront-gateway/internal/features/cart/ports"

	"github.com/gofiber/fiber/v2"
)

// CartHandler serves the signed-in user's cart.
type CartHandler struct {
	service ports.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// SetQuantityRequest changes one line. Quantity 0 removes it.
type SetQuantityRequest struct {
	ProductID string `json:"productId" validate:"required"`
	SKU       string `json:"sku"`
	Quantity  *int   `json:"quantity" validate:"required"`
}

// Get returns the cart.
// @Summary Get cart
// @Tags Cart
// @Produce json
// @Success 200 {object} domain.Cart
// @Failure 401 {object} respond.ErrorResponse
// @Router /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	cart, err := h.service.Get(c.UserContext(), session.Token, session.UserID)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(cart)
}

// AddItem puts a product in the cart. Products with variants need a sku
// or a color and storage pair.
// @Summary Add to cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body domain.AddItem true "Item"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var req domain.AddItem
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	cart, err := h.service.Add(c.UserContext(), session.Token, session.UserID, req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(cart)
}

// SetQuantity changes a line's quantity.
// @Summary Update cart line
// @Tags Cart
// @Accept json
// @Produce json
// @Param body body SetQuantityRequest true "Line"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/cart/items [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	cart, err := h.service.SetQuantity(c.UserContext(), session.Token, session.UserID, req.ProductID, req.SKU, *req.Quantity)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(cart)
}
