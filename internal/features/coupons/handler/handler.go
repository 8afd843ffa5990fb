package handler

import (
	"net/http"
	"time"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/money"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/core/validation"
	"storefront-gateway/internal/features/coupons/domain"
	"storefront-gateway/internal/features/coupons/ports"

	"github.com/gofiber/fiber/v2"
)

// CouponHandler handles the admin coupon screens.
type CouponHandler struct {
	service ports.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service ports.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// DiscountRequest is the discount part of a coupon form.
type DiscountRequest struct {
	Type      domain.DiscountType `json:"type" validate:"required,oneof=FIXED PERCENTAGE"`
	Value     float64             `json:"value" validate:"gt=0"`
	MaxAmount *int64              `json:"maxAmount" validate:"omitempty,gte=0"`
	MinOrder  int64               `json:"minOrder" validate:"gte=0"`
}

// CreateCouponRequest is the body of a new coupon.
type CreateCouponRequest struct {
	Code      string          `json:"code" validate:"required"`
	Discount  DiscountRequest `json:"discount"`
	StartDate time.Time       `json:"startDate" validate:"required"`
	EndDate   time.Time       `json:"endDate" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	Active    *bool           `json:"isActive"`
}

func (r DiscountRequest) toDomain() domain.Discount {
	d := domain.Discount{
		Type:     r.Type,
		Value:    r.Value,
		MinOrder: money.Amount(r.MinOrder),
	}
	if r.MaxAmount != nil {
		maxAmount := money.Amount(*r.MaxAmount)
		d.MaxAmount = &maxAmount
	}
	return d
}

// List returns coupons with their state and usage.
// @Summary List coupons (admin)
// @Tags Admin
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param keyword query string false "Code search"
// @Success 200 {object} pagination.Page[domain.View]
// @Router /api/admin/coupons [get]
func (h *CouponHandler) List(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.service.List(c.UserContext(), session.Token, pagination.FromRequest(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// Get returns one coupon.
// @Summary Get coupon (admin)
// @Tags Admin
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} domain.View
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/admin/coupons/{id} [get]
func (h *CouponHandler) Get(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	view, err := h.service.Get(c.UserContext(), session.Token, c.Params("id"))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// Create adds a coupon.
// @Summary Create coupon (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body CreateCouponRequest true "Coupon"
// @Success 201 {object} domain.View
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/admin/coupons [post]
func (h *CouponHandler) Create(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var req CreateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}
	if err := validation.Struct(req); err != nil {
		return respond.Error(c, err)
	}

	coupon := domain.Coupon{
		Code:      req.Code,
		Discount:  req.Discount.toDomain(),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Quantity:  req.Quantity,
		Active:    req.Active == nil || *req.Active,
	}

	view, err := h.service.Create(c.UserContext(), session.Token, coupon)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusCreated).JSON(view)
}

// Update edits a coupon. Redeemed coupons only accept endDate, quantity and isActive changes.
// @Summary Update coupon (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param body body domain.CouponEdit true "Fields to change"
// @Success 200 {object} domain.View
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/admin/coupons/{id} [put]
func (h *CouponHandler) Update(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var edit domain.CouponEdit
	if err := c.BodyParser(&edit); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	view, err := h.service.Update(c.UserContext(), session.Token, c.Params("id"), edit)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(view)
}

// Delete removes a coupon.
// @Summary Delete coupon (admin)
// @Tags Admin
// @Param id path string true "Coupon ID"
// @Success 204
// @Router /api/admin/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.service.Delete(c.UserContext(), session.Token, c.Params("id")); err != nil {
		return respond.Error(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
