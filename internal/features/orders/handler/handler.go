package handler

import (
	"net/http"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/features/orders/domain"
	"storefront-gateway/internal/features/orders/ports"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the order service port.
	service ports.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s ports.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// TransitionRequest is the body of a status change.
type TransitionRequest struct {
	// From is the status the admin saw when choosing.
	From string `json:"from"`
	// To is the requested status.
	To string `json:"to"`
}

// ListStatuses returns every status with the transitions it offers.
// @Summary List order statuses
// @Description Statuses ordered by level with their allowed next states.
// @Tags Orders
// @Produce json
// @Success 200 {array} domain.StatusOption
// @Router /api/orders/statuses [get]
func (h *OrderHandler) ListStatuses(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(domain.StatusOptions())
}

// ListMine returns the caller's order history.
// @Summary My orders
// @Tags Orders
// @Produce json
// @Success 200 {array} domain.Order
// @Failure 401 {object} respond.ErrorResponse
// @Router /api/orders/me [get]
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	orders, err := h.service.ListMine(c.UserContext(), session.Token)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(orders)
}

// CancelMine cancels one of the caller's pending orders.
// @Summary Cancel my order
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/orders/{id}/cancel [put]
func (h *OrderHandler) CancelMine(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	order, err := h.service.CancelMine(c.UserContext(), session.Token, c.Params("id"))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(order)
}

// ListAdmin returns one page of orders for the admin table.
// @Summary List orders (admin)
// @Tags Admin
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Status filter or ALL"
// @Success 200 {object} pagination.Page[domain.Order]
// @Failure 403 {object} respond.ErrorResponse
// @Router /api/admin/orders [get]
func (h *OrderHandler) ListAdmin(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.service.ListAdmin(c.UserContext(), session.Token, pagination.FromRequest(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// UpdateStatus moves an order to a new status.
// @Summary Change order status (admin)
// @Description Rejects backward moves and moves out of DELIVERED or CANCELLED before calling the backend.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body TransitionRequest true "Displayed and requested status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	from, ok := domain.ParseStatus(req.From)
	if !ok {
		return respond.Error(c, apperror.NewValidation("from", "Unknown order status."))
	}
	to, ok := domain.ParseStatus(req.To)
	if !ok {
		return respond.Error(c, apperror.NewValidation("to", "Unknown order status."))
	}

	order, err := h.service.ApplyTransition(c.UserContext(), session.Token, c.Params("id"), from, to)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(order)
}
