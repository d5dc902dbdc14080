package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) CreateEscrow(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request id")
	}

	var req dto.CreateEscrowRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.CreateEscrow(coupleID, requestID, req.AmountCents)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{OK: true, ID: payment.ID})
}

func (h *PaymentHandler) ResolveEscrow(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid payment id")
	}

	var req dto.ResolveEscrowRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.paymentService.ResolveEscrow(coupleID, paymentID, req.Status); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
