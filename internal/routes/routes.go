package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/wedflexhq/wedflex-backend/internal/config"
	"github.com/wedflexhq/wedflex-backend/internal/handlers"
	"github.com/wedflexhq/wedflex-backend/internal/middleware"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	requestHandler *handlers.RequestHandler,
	applicationHandler *handlers.ApplicationHandler,
	bookingHandler *handlers.BookingHandler,
	paymentHandler *handlers.PaymentHandler,
	payoutHandler *handlers.PayoutHandler,
	connectHandler *handlers.ConnectHandler,
	messageHandler *handlers.MessageHandler,
	dashboardHandler *handlers.DashboardHandler,
	webhookHandler *handlers.WebhookHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	jwt := middleware.JWTProtected(cfg)
	couple := middleware.RequireRole(models.RoleCouple)
	wedflexer := middleware.RequireRole(models.RoleWedflexer)

	// Profile
	api.Get("/me", jwt, profileHandler.Me)
	api.Patch("/me", jwt, profileHandler.UpdateMe)

	// Service requests
	api.Post("/requests", jwt, couple, requestHandler.Create)
	api.Get("/requests/:id", jwt, requestHandler.Detail)
	api.Delete("/requests/:id", jwt, couple, requestHandler.Cancel)
	api.Get("/my/requests", jwt, couple, requestHandler.ListMine)
	api.Get("/open-requests", jwt, wedflexer, requestHandler.OpenFeed)

	// Applications
	api.Post("/applications", jwt, wedflexer, applicationHandler.Submit)
	api.Get("/my/applications", jwt, wedflexer, applicationHandler.ListMine)
	api.Patch("/applications/:id", jwt, applicationHandler.UpdateStatus)
	api.Post("/applications/:id/files", jwt, applicationHandler.SignFile)

	// Award, booking, escrow
	api.Post("/requests/:id/award", jwt, couple, requestHandler.Award)
	api.Post("/checkout", jwt, couple, bookingHandler.Checkout)
	api.Post("/requests/:id/escrow", jwt, couple, paymentHandler.CreateEscrow)
	api.Patch("/payments/:id", jwt, couple, paymentHandler.ResolveEscrow)

	// Payout onboarding
	api.Post("/connect/onboarding-link", jwt, wedflexer, connectHandler.OnboardingLink)
	api.Post("/connect/login-link", jwt, wedflexer, connectHandler.LoginLink)

	// Messaging
	api.Post("/messages", jwt, messageHandler.Send)
	api.Get("/messages", jwt, messageHandler.ListConversation)
	api.Get("/threads", jwt, messageHandler.ListThreads)
	api.Get("/threads/:id/messages", jwt, messageHandler.ListMessages)

	// Dashboard
	api.Get("/dashboard/couple", jwt, couple, dashboardHandler.Couple)

	// Admin — session admins or the X-Admin-Token header (cron)
	admin := api.Group("/admin", middleware.JWTOrAdminToken(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/payouts/dispatch", payoutHandler.Dispatch)
	admin.Post("/payouts/:id/requeue", payoutHandler.Requeue)

	// Webhooks — processor signature instead of JWT
	api.Post("/webhooks/stripe", webhookHandler.HandleStripe)
}
