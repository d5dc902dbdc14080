package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/wedflexhq/wedflex-backend/internal/config"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
)

func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				OK: false, Error: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// JWTOrAdminToken is the JWT guard, skipped when the admin token header is
// present; AdminRequired validates that header afterwards. Lets cron hit
// the admin endpoints without a user session.
func JWTOrAdminToken(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		Filter: func(c *fiber.Ctx) bool {
			return cfg.AdminToken != "" && c.Get("X-Admin-Token") != ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				OK: false, Error: "Unauthorized: invalid or expired token",
			})
		},
	})
}
