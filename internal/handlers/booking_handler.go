package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Checkout creates the booking and returns the hosted checkout URL the
// client redirects to.
func (h *BookingHandler) Checkout(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	url, err := h.bookingService.StartCheckout(c.Context(), coupleID, req.ApplicationID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.CheckoutResponse{OK: true, URL: url})
}
