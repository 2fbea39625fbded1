package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// Index lists products. Public callers only ever see active ones; staff may
// pass all=1 to include drafts.
func (h *ProductHandler) Index(c *fiber.Ctx) error {
	activeOnly := true
	if u := currentUser(c); u != nil && u.IsStaff() && c.Query("all") == "1" {
		activeOnly = false
	}
	prods, err := h.Catalog.ListProducts(services.ProductQuery{
		Q:             c.Query("q"),
		CollectionID:  c.Query("collection"),
		ActiveOnly:    activeOnly,
		PriceMinCents: c.QueryInt("min_price_cents"),
		PriceMaxCents: c.QueryInt("max_price_cents"),
		Page:          c.QueryInt("page", 1),
		PageSize:      c.QueryInt("per_page", 15),
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", prods)
}

func (h *ProductHandler) Show(c *fiber.Ctx) error {
	p, err := h.Catalog.GetProduct(c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", p)
}

// Stock answers availability probes without exposing the full product.
func (h *ProductHandler) Stock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}
	n, err := h.Catalog.ProductStock(id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", fiber.Map{"product_id": id, "stock": n})
}

type productBody struct {
	SKU             string `json:"sku"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	PriceCents      int    `json:"price_cents"`
	DiscountPercent int    `json:"discount_percent"`
	Stock           int    `json:"stock"`
	IsActive        *bool  `json:"is_active"`
}

func (b productBody) validate() (string, bool) {
	if _, okName := validate.Name(b.Name); !okName {
		return "Invalid name", false
	}
	if b.PriceCents < 0 {
		return "price_cents must not be negative", false
	}
	if b.DiscountPercent < 0 || b.DiscountPercent > 100 {
		return "discount_percent must be between 0 and 100", false
	}
	if b.Stock < 0 {
		return "stock must not be negative", false
	}
	if b.Slug != "" && !validate.IsSlug(b.Slug) {
		return "Invalid slug", false
	}
	return "", true
}

func (b productBody) toDomain() domain.Product {
	active := true
	if b.IsActive != nil {
		active = *b.IsActive
	}
	return domain.Product{
		SKU:             b.SKU,
		Name:            b.Name,
		Slug:            b.Slug,
		Description:     b.Description,
		PriceCents:      b.PriceCents,
		DiscountPercent: b.DiscountPercent,
		Stock:           b.Stock,
		IsActive:        active,
	}
}

func (h *ProductHandler) Store(c *fiber.Ctx) error {
	var body productBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if msg, okBody := body.validate(); !okBody {
		return fail(c, fiber.StatusUnprocessableEntity, msg)
	}
	p, err := h.Catalog.CreateProduct(body.toDomain())
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return ok(c, fiber.StatusCreated, "Product created", p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}
	var body productBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if msg, okBody := body.validate(); !okBody {
		return fail(c, fiber.StatusUnprocessableEntity, msg)
	}
	p := body.toDomain()
	p.ID = id
	updated, err := h.Catalog.UpdateProduct(p)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, "Product updated", updated)
}

func (h *ProductHandler) Destroy(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, "Product deleted", nil)
}

func (h *ProductHandler) Restore(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.RestoreProduct(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "product.restore", map[string]any{"product_id": id})
	return ok(c, fiber.StatusOK, "Product restored", nil)
}
