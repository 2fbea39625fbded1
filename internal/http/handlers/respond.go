package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
)

// Every response uses the same envelope so clients never branch on shape.
func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "message": message, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message, "data": nil})
}

// failErr maps service and repo errors to envelope responses. Stock
// shortfalls carry the remaining quantity so clients can adjust instead
// of retrying blind.
func failErr(c *fiber.Ctx, err error) error {
	var stock *domain.InsufficientStockError
	switch {
	case errors.As(err, &stock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient stock",
			"data":    fiber.Map{"available_stock": stock.Available},
		})
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrEmptyCart):
		return fail(c, fiber.StatusBadRequest, "Cart is empty")
	case errors.Is(err, services.ErrBadCreds):
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrEmailTaken):
		return fail(c, fiber.StatusUnprocessableEntity, "Email already registered")
	case errors.Is(err, services.ErrBadStatus), errors.Is(err, services.ErrBadMessageStatus):
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid status")
	default:
		applog.Error(c, "request.error", err, nil)
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
}
