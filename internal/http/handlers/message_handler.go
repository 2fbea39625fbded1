package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type MessageHandler struct {
	Content *services.ContentService
}

type messageBody struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"message"`
}

// Store receives the public contact form.
func (h *MessageHandler) Store(c *fiber.Ctx) error {
	var body messageBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	name, okName := validate.Name(body.Name)
	email, okEmail := validate.Email(body.Email)
	if !okName || !okEmail || body.Body == "" {
		return fail(c, fiber.StatusUnprocessableEntity, "name, email and message are required")
	}
	m, err := h.Content.SubmitMessage(name, email, body.Subject, body.Body)
	if err != nil {
		return failErr(c, err)
	}
	applog.Info(c, "message.submit", map[string]any{"message_id": m.ID})
	return ok(c, fiber.StatusCreated, "Message sent", m)
}

func (h *MessageHandler) Index(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := c.QueryInt("per_page", 15)
	if perPage <= 0 || perPage > 100 {
		perPage = 15
	}
	msgs, err := h.Content.ListMessages(c.Query("status"), perPage, (page-1)*perPage)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", msgs)
}

func (h *MessageHandler) Show(c *fiber.Ctx) error {
	m, err := h.Content.GetMessage(c.Params("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", m)
}

func (h *MessageHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var body statusBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	m, err := h.Content.UpdateMessageStatus(id, body.Status)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "message.status", map[string]any{"message_id": id, "status": body.Status})
	return ok(c, fiber.StatusOK, "Message updated", m)
}

func (h *MessageHandler) Destroy(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Content.DeleteMessage(id); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "message.delete", map[string]any{"message_id": id})
	return ok(c, fiber.StatusOK, "Message deleted", nil)
}
