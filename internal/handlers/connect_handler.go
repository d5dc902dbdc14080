package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type ConnectHandler struct {
	connectService *services.ConnectService
}

func NewConnectHandler(connectService *services.ConnectService) *ConnectHandler {
	return &ConnectHandler{connectService: connectService}
}

func (h *ConnectHandler) OnboardingLink(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	url, err := h.connectService.OnboardingLink(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "url": url})
}

func (h *ConnectHandler) LoginLink(c *fiber.Ctx) error {
	userID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	url, err := h.connectService.LoginLink(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "url": url})
}
