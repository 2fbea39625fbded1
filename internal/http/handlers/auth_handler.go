package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
	"github.com/samukelok/harvviie-backend/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
	Cart *services.CartService
}

type credentialsBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	name, okName := validate.Name(body.Name)
	email, okEmail := validate.Email(body.Email)
	if !okName || !okEmail {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid name or email")
	}
	if !validate.Password(body.Password) {
		return fail(c, fiber.StatusUnprocessableEntity, "Password must be 8-72 chars with upper, lower and digit")
	}

	u, token, err := h.Auth.Register(name, email, body.Password)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"email": email})
	return ok(c, fiber.StatusCreated, "Registered", fiber.Map{"user": u, "token": token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body credentialsBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	email, okEmail := validate.Email(body.Email)
	if !okEmail || body.Password == "" {
		applog.Security(c, "auth.login.fail", map[string]any{"email": body.Email, "reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	u, token, err := h.Auth.Login(email, body.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		return failErr(c, err)
	}

	// A guest cart built before login follows the user in.
	if sid := sessionKey(c); sid != "" {
		_ = h.Cart.MergeIntoUser(sid, u.ID)
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	return ok(c, fiber.StatusOK, "Logged in", fiber.Map{"user": u, "token": token})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	if err := h.Auth.Logout(token); err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "auth.logout", nil)
	return ok(c, fiber.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, "OK", currentUser(c))
}

type profileBody struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address *domain.Address `json:"address"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)
	var body profileBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	name, okName := validate.Name(body.Name)
	if !okName {
		return fail(c, fiber.StatusUnprocessableEntity, "Invalid name")
	}
	updated, err := h.Auth.UpdateProfile(u.ID, name, body.Phone, body.Address)
	if err != nil {
		return failErr(c, err)
	}
	applog.Audit(c, "auth.profile.update", map[string]any{"user_id": u.ID})
	return ok(c, fiber.StatusOK, "Profile updated", updated)
}
