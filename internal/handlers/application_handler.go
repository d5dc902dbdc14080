package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	wedflexerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Submit(wedflexerID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SubmitApplicationResponse{OK: true, ID: app.ID})
}

func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	wedflexerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	apps, err := h.applicationService.ListMine(wedflexerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "applications": apps})
}

func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	callerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid application id")
	}

	var req dto.UpdateApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.applicationService.UpdateStatus(callerID, applicationID, req.Status); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ApplicationHandler) SignFile(c *fiber.Ctx) error {
	callerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid application id")
	}

	var req dto.SignedFileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	url, err := h.applicationService.SignFile(callerID, applicationID, req.FilePath)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "url": url})
}
