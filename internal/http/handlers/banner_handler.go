package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type BannerHandler struct {
	Content *services.ContentService
}

// Index serves the storefront carousel: active banners in position order.
func (h *BannerHandler) Index(c *fiber.Ctx) error {
	banners, err := h.Content.ActiveBanners()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", banners)
}

// AdminIndex lists every banner, inactive ones included.
func (h *BannerHandler) AdminIndex(c *fiber.Ctx) error {
	banners, err := h.Content.AllBanners()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", banners)
}

type bannerBody struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position"`
	IsActive *bool  `json:"is_active"`
}

func (b bannerBody) toDomain() domain.Banner {
	active := true
	if b.IsActive != nil {
		active = *b.IsActive
	}
	return domain.Banner{
		Title:    b.Title,
		Subtitle: b.Subtitle,
		ImageURL: b.ImageURL,
		LinkURL:  b.LinkURL,
		Position: b.Position,
		IsActive: active,
	}
}

func (h *BannerHandler) Store(c *fiber.Ctx) error {
	var body bannerBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if _, okTitle := validate.Name(body.Title); !okTitle {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid title")
	}
	b, err := h.Content.CreateBanner(body.toDomain())
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "banner.create", map[string]any{"banner_id": b.ID})
	return ok(c, fiber.StatusCreated, "Banner created", b)
}

func (h *BannerHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid id")
	}
	var body bannerBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if _, okTitle := validate.Name(body.Title); !okTitle {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid title")
	}
	b := body.toDomain()
	b.ID = id
	updated, err := h.Content.UpdateBanner(b)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "banner.update", map[string]any{"banner_id": id})
	return ok(c, fiber.StatusOK, "Banner updated", updated)
}

func (h *BannerHandler) Destroy(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Content.DeleteBanner(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "banner.delete", map[string]any{"banner_id": id})
	return ok(c, fiber.StatusOK, "Banner deleted", nil)
}
