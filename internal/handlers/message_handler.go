package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	callerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	msg, err := h.messageService.Send(callerID, req.Other, req.RequestID, req.Body, req.FileURL)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "message": msg})
}

// ListConversation reads the conversation with another user by the pair
// key. An unknown pair reads as an empty conversation.
func (h *MessageHandler) ListConversation(c *fiber.Ctx) error {
	callerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	other, err := uuid.Parse(c.Query("other"))
	if err != nil {
		return badRequest(c, "Missing or invalid other")
	}

	var requestID *uuid.UUID
	if raw := c.Query("request_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid request_id")
		}
		requestID = &id
	}

	msgs, err := h.messageService.ListConversation(callerID, other, requestID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "messages": msgs})
}

func (h *MessageHandler) ListThreads(c *fiber.Ctx) error {
	callerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	threads, err := h.messageService.ListThreads(callerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "threads": threads})
}

func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	callerID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	threadID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid thread id")
	}

	msgs, err := h.messageService.ListMessages(callerID, threadID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "messages": msgs})
}
