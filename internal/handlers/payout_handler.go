package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type PayoutHandler struct {
	payoutService *services.PayoutService
}

func NewPayoutHandler(payoutService *services.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// Dispatch runs a payout sweep on demand. The same sweep also runs on the
// background ticker; this endpoint exists for cron and operators.
func (h *PayoutHandler) Dispatch(c *fiber.Ctx) error {
	count, err := h.payoutService.Dispatch(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.DispatchResponse{OK: true, Count: count})
}

func (h *PayoutHandler) Requeue(c *fiber.Ctx) error {
	payoutID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid payout id")
	}

	if err := h.payoutService.Requeue(payoutID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
