package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
)

// RequireRole gates a route on the caller's active marketplace role.
// The role travels in the access token; switching sides requires a fresh
// login token, which keeps the check free of a DB read per request.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if identity.ActiveRole(c) != role {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				OK: false, Error: "This action requires the " + role + " role",
			})
		}
		return c.Next()
	}
}
