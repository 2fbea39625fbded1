package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/repos"
	"github.com/samukelok/harvviie-backend/internal/services"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// Index is the staff listing with status, date window and free-text filters.
func (h *OrderHandler) Index(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 15)
	if perPage <= 0 || perPage > 100 {
		perPage = 15
	}
	orders, err := h.Orders.List(repos.ListFilter{
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Q:        c.Query("q"),
		Limit:    perPage,
		Offset:   (page - 1) * perPage,
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", orders)
}

// MyOrders lists the authenticated customer's own orders.
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	u := currentUser(c)
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 15)
	if perPage <= 0 || perPage > 100 {
		perPage = 15
	}
	orders, err := h.Orders.ListByUser(u.ID, c.Query("status"), perPage, (page-1)*perPage)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", orders)
}

// Show returns one order. Customers may only read their own; staff read any.
func (h *OrderHandler) Show(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	u := currentUser(c)
	if !u.IsStaff() && o.UserID != u.ID {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": o.ID})
		return fail(c, fiber.StatusForbidden, "Access denied")
	}
	return ok(c, fiber.StatusOK, "OK", o)
}

type checkoutBody struct {
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Shipping      *domain.Address `json:"shipping_address"`
}

// Checkout converts the caller's active cart into an order.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var body checkoutBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	owner := resolveOwner(c)
	if u := currentUser(c); u != nil {
		if body.CustomerName == "" {
			body.CustomerName = u.Name
		}
		if body.CustomerEmail == "" {
			body.CustomerEmail = u.Email
		}
	}
	name, okName := validate.Name(body.CustomerName)
	email, okEmail := validate.Email(body.CustomerEmail)
	if !okName || !okEmail {
		return fail(c, fiber.StatusUnprocessableEntity, "customer_name and customer_email are required")
	}

	o, err := h.Orders.Checkout(owner, name, email, body.Shipping)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "order.checkout", map[string]any{"order_id": o.ID, "order_number": o.OrderNumber, "amount_cents": o.AmountCents})
	return ok(c, fiber.StatusCreated, "Order placed", o)
}

type orderBody struct {
	UserID        string             `json:"user_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Items         []domain.OrderLine `json:"items"`
	AmountCents   int                `json:"amount_cents"`
	Status        string             `json:"status"`
	Shipping      *domain.Address    `json:"shipping_address"`
	PlacedAt      string             `json:"placed_at"`
}

// Store is the staff path for recording an order directly.
func (h *OrderHandler) Store(c *fiber.Ctx) error {
	var body orderBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	name, okName := validate.Name(body.CustomerName)
	email, okEmail := validate.Email(body.CustomerEmail)
	if !okName || !okEmail {
		return fail(c, fiber.StatusUnprocessableEntity, "customer_name and customer_email are required")
	}
	o, err := h.Orders.Create(services.CreateOrderInput{
		UserID:        body.UserID,
		CustomerName:  name,
		CustomerEmail: email,
		Items:         body.Items,
		AmountCents:   body.AmountCents,
		Status:        body.Status,
		Shipping:      body.Shipping,
		PlacedAt:      body.PlacedAt,
	})
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "order.create", map[string]any{"order_id": o.ID, "order_number": o.OrderNumber})
	return ok(c, fiber.StatusCreated, "Order created", o)
}

type statusBody struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if err := h.Orders.UpdateStatus(id, body.Status); err != nil {
		return failErr(c, err)
	}
	o, err := h.Orders.Get(id)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": body.Status})
	return ok(c, fiber.StatusOK, "Order status updated", o)
}

// Destroy cancels an order. Rows are never deleted; history stays.
func (h *OrderHandler) Destroy(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Cancel(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": id})
	return ok(c, fiber.StatusOK, "Order cancelled", nil)
}
