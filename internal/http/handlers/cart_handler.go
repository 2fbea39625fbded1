package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// sessionKey identifies an anonymous shopper. Clients that want a stable
// guest cart send X-Cart-Session; otherwise the client IP stands in.
func sessionKey(c *fiber.Ctx) string {
	if sid, okID := validate.ID(c.Get("X-Cart-Session")); okID {
		return sid
	}
	return ""
}

// resolveOwner picks the cart identity for this request: the authenticated
// user when present, else the session key, else the caller's IP.
func resolveOwner(c *fiber.Ctx) domain.CartOwner {
	if u := currentUser(c); u != nil {
		return domain.UserOwner(u.ID)
	}
	if sid := sessionKey(c); sid != "" {
		return domain.SessionOwner(sid)
	}
	return domain.SessionOwner(c.IP())
}

func (h *CartHandler) Show(c *fiber.Ctx) error {
	cv, err := h.Cart.View(resolveOwner(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", cv)
}

type cartItemBody struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var body cartItemBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	productID, okID := validate.ID(body.ProductID)
	if !okID {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid product_id")
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	cv, err := h.Cart.AddItem(resolveOwner(c), productID, body.Quantity)
	if err != nil {
		return failErr(c, err)
	}
	applog.Info(c, "cart.item.add", map[string]any{"product_id": productID, "qty": body.Quantity})
	return ok(c, fiber.StatusOK, "Item added to cart", cv)
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, okID := validate.ID(c.Params("itemID"))
	if !okID {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid item id")
	}
	var body cartItemBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if body.Quantity < 1 {
		return fail(c, fiber.StatusUnprocessableEntity, "Quantity must be at least 1")
	}

	cv, err := h.Cart.UpdateItem(resolveOwner(c), itemID, body.Quantity)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "Cart item updated", cv)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, okID := validate.ID(c.Params("itemID"))
	if !okID {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid item id")
	}
	cv, err := h.Cart.RemoveItem(resolveOwner(c), itemID)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "Item removed from cart", cv)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cv, err := h.Cart.Clear(resolveOwner(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "Cart cleared", cv)
}
