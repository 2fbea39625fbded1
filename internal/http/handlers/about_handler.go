package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
)

type AboutHandler struct {
	Content *services.ContentService
}

func (h *AboutHandler) Show(c *fiber.Ctx) error {
	a, err := h.Content.AboutPage()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", a)
}

type aboutBody struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

func (h *AboutHandler) Update(c *fiber.Ctx) error {
	var body aboutBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if body.Title == "" || body.Content == "" {
		return fail(c, fiber.StatusUnprocessableEntity, "title and content are required")
	}
	a, err := h.Content.UpdateAbout(domain.About{
		Title: body.Title, Content: body.Content, ImageURL: body.ImageURL,
	})
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "about.update", nil)
	return ok(c, fiber.StatusOK, "About page updated", a)
}
