package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/services"
)

type DashboardHandler struct {
	Dash *services.DashboardService
}

// Show returns the back-office landing payload in one round trip.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	summary, err := h.Dash.Summary()
	if err != nil {
		return failErr(c, err)
	}
	top, err := h.Dash.TopProducts(c.QueryInt("top", 5))
	if err != nil {
		return failErr(c, err)
	}
	pending, err := h.Dash.PendingOrders(c.QueryInt("pending", 10))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", fiber.Map{
		"summary":        summary,
		"top_products":   top,
		"pending_orders": pending,
	})
}
