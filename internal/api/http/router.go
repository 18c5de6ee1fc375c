package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/hackucf/onboard/internal/api/http/handlers"
	"github.com/hackucf/onboard/internal/auth"
	"github.com/hackucf/onboard/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Wallet         *handlers.WalletHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	walletGroup := app.Group("/wallet")
	walletGroup.Get("/", cfg.Wallet.Info)
	walletGroup.Get("/apple",
		cfg.AuthMiddleware.Handle,
		auth.RequireMember(),
		cfg.RateLimiter.Handle,
		cfg.Wallet.ApplePass,
	)
}
