package handler

import (
	"net/http"

	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/features/dashboard/ports"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the admin dashboard.
type DashboardHandler struct {
	service ports.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get returns the dashboard aggregates.
// @Summary Dashboard (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} domain.Summary
// @Failure 403 {object} respond.ErrorResponse
// @Router /api/admin/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	summary, err := h.service.Summary(c.UserContext(), session.Token)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(summary)
}
