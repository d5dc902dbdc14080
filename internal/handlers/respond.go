package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
)

// fail renders err through the apperr status/message mapping.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.Status(err)).JSON(dto.ErrorResponse{
		OK: false, Error: apperr.Public(err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		OK: false, Error: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		OK: false, Error: "Unauthorized",
	})
}
