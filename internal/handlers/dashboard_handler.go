package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wedflexhq/wedflex-backend/internal/identity"
	"github.com/wedflexhq/wedflex-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Couple(c *fiber.Ctx) error {
	coupleID, err := identity.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	overview, err := h.dashboardService.CoupleOverview(coupleID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(overview)
}
