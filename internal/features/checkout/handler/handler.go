package handler

import (
	"net/http"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/features/checkout/domain"
	"storefront-gateway/internal/features/checkout/ports"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler serves the checkout page.
type CheckoutHandler struct {
	service ports.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// Coupons lists the coupons the customer can pick.
// @Summary Selectable coupons
// @Tags Checkout
// @Produce json
// @Success 200 {array} coupons.Coupon
// @Router /api/checkout/coupons [get]
func (h *CheckoutHandler) Coupons(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	list, err := h.service.SelectableCoupons(c.UserContext(), session.Token)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(list)
}

// Quote prices the cart with an optional coupon.
// @Summary Price the cart
// @Tags Checkout
// @Produce json
// @Param couponId query string false "Coupon ID"
// @Success 200 {object} domain.Quote
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/checkout/quote [get]
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	quote, err := h.service.Quote(c.UserContext(), session.Token, session.UserID, c.Query("couponId"))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(quote)
}

// PlaceOrder submits the cart. For MOMO and VNPAY the response carries
// the paymentUrl the customer must be redirected to.
// @Summary Place order
// @Tags Checkout
// @Accept json
// @Produce json
// @Param body body domain.PlaceOrderInput true "Checkout form"
// @Success 201 {object} domain.Placement
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/checkout/orders [post]
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var req domain.PlaceOrderInput
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	placement, err := h.service.PlaceOrder(c.UserContext(), session.Token, session.UserID, req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusCreated).JSON(placement)
}
