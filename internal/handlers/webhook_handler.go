package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/payments"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type WebhookHandler struct {
	verifier       payments.WebhookVerifier
	paymentService *services.PaymentService
}

func NewWebhookHandler(verifier payments.WebhookVerifier, paymentService *services.PaymentService) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, paymentService: paymentService}
}

// HandleStripe receives processor events. Bad signatures get a 400; event
// types we don't act on are acked so the processor stops retrying them;
// processing failures return 500 so the event is redelivered.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	evt, relevant, err := h.verifier.VerifyCheckoutEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		slog.Warn("webhook rejected", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			OK: false, Error: "Invalid webhook payload",
		})
	}
	if !relevant {
		return c.JSON(fiber.Map{"received": true})
	}

	if err := h.paymentService.HandleCheckoutCompleted(evt); err != nil {
		slog.Error("webhook processing failed", "booking_id", evt.BookingID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			OK: false, Error: "Webhook processing failed",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}
