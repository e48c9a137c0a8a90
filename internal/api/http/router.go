package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sachi-ghani/storefront-service/internal/api/http/handlers"
	"github.com/sachi-ghani/storefront-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Cart           *handlers.CartHandler
	Orders         *handlers.OrdersHandler
	Feedback       *handlers.FeedbackHandler
	Upload         *handlers.UploadHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	if cfg.RateLimiter != nil {
		authGroup.Use(cfg.RateLimiter.Handle)
	}
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)

	api := app.Group("/api")
	api.Post("/upload", cfg.Upload.Upload)

	api.Get("/feedback", cfg.Feedback.List)
	api.Post("/feedback", cfg.Feedback.Create)
	api.Put("/feedback/:id", cfg.Feedback.Update)
	api.Delete("/feedback/:id", cfg.Feedback.Delete)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/cart", cfg.Cart.Get)
	protected.Put("/cart", cfg.Cart.Put)
	protected.Post("/orders", cfg.Orders.Place)
	protected.Get("/orders/me", cfg.Orders.Mine)
	protected.Get("/orders", auth.RequireAdmin(), cfg.Orders.All)
}
