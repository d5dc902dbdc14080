package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type RequestHandler struct {
	requestService     *services.RequestService
	applicationService *services.ApplicationService
}

func NewRequestHandler(requestService *services.RequestService, applicationService *services.ApplicationService) *RequestHandler {
	return &RequestHandler{requestService: requestService, applicationService: applicationService}
}

func (h *RequestHandler) Create(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	request, err := h.requestService.Create(coupleID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateRequestResponse{OK: true, ID: request.ID})
}

func (h *RequestHandler) OpenFeed(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	requests, err := h.requestService.OpenFeed(limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "requests": requests})
}

func (h *RequestHandler) ListMine(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	requests, err := h.requestService.ListMine(coupleID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "requests": requests})
}

func (h *RequestHandler) Detail(c *fiber.Ctx) error {
	callerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	request, applications, err := h.requestService.Detail(callerID, requestID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "request": request, "applications": applications})
}

func (h *RequestHandler) Cancel(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	if err := h.requestService.Cancel(coupleID, requestID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *RequestHandler) Award(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var req dto.AwardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ApplicationID == uuid.Nil {
		return badRequest(c, "Missing application_id")
	}

	if err := h.applicationService.Award(coupleID, requestID, req.ApplicationID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
