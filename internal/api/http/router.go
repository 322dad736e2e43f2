package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crowdinfra/crowdinfra-api/internal/api/http/handlers"
	"github.com/crowdinfra/crowdinfra-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Demands        *handlers.DemandHandler
	Properties     *handlers.PropertyHandler
	Ratings        *handlers.RatingHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	requireAuth := cfg.AuthMiddleware.Handle

	demands := api.Group("/demand")
	demands.Post("/demand", cfg.Demands.Create)
	demands.Get("/getDemand", cfg.Demands.List)
	demands.Get("/getDemandById/:id", cfg.Demands.Get)
	demands.Get("/nearby", cfg.Demands.Nearby)
	demands.Patch("/:id/upvote", requireAuth, cfg.Demands.ToggleUpvote)
	demands.Post("/:id/comments", requireAuth, cfg.Demands.AddComment)

	properties := api.Group("/property")
	properties.Post("/property", cfg.Properties.Create)
	properties.Get("/getProperty", cfg.Properties.List)
	properties.Get("/getPropertyById/:id", cfg.Properties.Get)

	ratings := api.Group("/rating")
	ratings.Post("/rating", cfg.Ratings.Submit)
	ratings.Get("/reviews", cfg.Ratings.List)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/verify", cfg.Auth.Verify)
	authGroup.Post("/logout", requireAuth, cfg.Auth.Logout)
	authGroup.Get("/me", requireAuth, cfg.Auth.Me)

	users := api.Group("/user")
	users.Get("/profile", requireAuth, cfg.Auth.Me)
}
