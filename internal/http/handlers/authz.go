package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samukelok/harvviie-backend/internal/domain"
	applog "github.com/samukelok/harvviie-backend/internal/log"
	"github.com/samukelok/harvviie-backend/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate resolves a bearer token into Locals("user") when present
// but never rejects; anonymous requests pass through untouched. Cart and
// checkout routes rely on this to serve both guests and account holders.
func Authenticate(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token != "" {
			if u, err := auth.UserForToken(token); err == nil {
				c.Locals("user", u)
				c.Locals("token", token)
			}
		}
		return c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return fail(c, fiber.StatusUnauthorized, "Unauthenticated")
		}
		u, err := auth.UserForToken(token)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return fail(c, fiber.StatusUnauthorized, "Unauthenticated")
		}
		c.Locals("user", u)
		c.Locals("token", token)
		return c.Next()
	}
}

// StaffOnly must run after RequireAuth; it lets only admin and editor
// accounts through.
func StaffOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil || !u.IsStaff() {
			applog.Security(c, "access.denied.staff", nil)
			return fail(c, fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
