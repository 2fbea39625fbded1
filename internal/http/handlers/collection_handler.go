package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type CollectionHandler struct {
	Catalog *services.CatalogService
}

func (h *CollectionHandler) Index(c *fiber.Ctx) error {
	cols, err := h.Catalog.ListCollections()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", cols)
}

func (h *CollectionHandler) Show(c *fiber.Ctx) error {
	cv, err := h.Catalog.GetCollection(c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", cv)
}

type collectionBody struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *CollectionHandler) Store(c *fiber.Ctx) error {
	var body collectionBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if _, okName := validate.Name(body.Name); !okName {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid name")
	}
	col, err := h.Catalog.CreateCollection(domain.Collection{
		Name: body.Name, Slug: body.Slug, Description: body.Description,
	})
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "collection.create", map[string]any{"collection_id": col.ID})
	return ok(c, fiber.StatusCreated, "Collection created", col)
}

func (h *CollectionHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}
	var body collectionBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if _, okName := validate.Name(body.Name); !okName {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid name")
	}
	col, err := h.Catalog.UpdateCollection(domain.Collection{
		ID: id, Name: body.Name, Slug: body.Slug, Description: body.Description,
	})
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "collection.update", map[string]any{"collection_id": id})
	return ok(c, fiber.StatusOK, "Collection updated", col)
}

func (h *CollectionHandler) Destroy(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.DeleteCollection(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "collection.delete", map[string]any{"collection_id": id})
	return ok(c, fiber.StatusOK, "Collection deleted", nil)
}

type assignBody struct {
	ProductIDs []string `json:"product_ids"`
}

// AssignProducts replaces membership positions for the given products,
// appending them in payload order.
func (h *CollectionHandler) AssignProducts(c *fiber.Ctx) error {
	id := c.Params("id")
	var body assignBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if len(body.ProductIDs) == 0 {
		return fail(c, fiber.StatusUnprocessableEntity, "product_ids must not be empty")
	}
	cv, err := h.Catalog.AssignProducts(id, body.ProductIDs)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "collection.assign", map[string]any{"collection_id": id, "count": len(body.ProductIDs)})
	return ok(c, fiber.StatusOK, "Products assigned", cv)
}

func (h *CollectionHandler) RemoveProduct(c *fiber.Ctx) error {
	if err := h.Catalog.RemoveProduct(c.Params("id"), c.Params("productID")); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "Product removed from collection", nil)
}
