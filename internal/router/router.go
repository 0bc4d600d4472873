// Package router wires the fiber app: global middleware, the versioned
// API routes and the admin surface.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/relaymesh/relaycoord/internal/config"
	"github.com/relaymesh/relaycoord/internal/coordinator"
	"github.com/relaymesh/relaycoord/internal/handlers"
	"github.com/relaymesh/relaycoord/internal/logging"
	"github.com/relaymesh/relaycoord/internal/middleware"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, coord *coordinator.Coordinator, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, coord)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Operator-ID,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Node lifecycle
	v1.Post("/nodes", h.RegisterNode)
	v1.Get("/nodes", h.ListNodes)
	v1.Get("/nodes/:node_id", h.GetNode)
	v1.Delete("/nodes/:node_id", h.DeregisterNode)
	v1.Post("/nodes/:node_id/heartbeat", h.Heartbeat)

	// Hub catalog
	v1.Get("/hubs", h.ListHubs)
	v1.Get("/hubs/:city_id", h.GetHub)

	// Relay routing
	v1.Post("/relay", h.Relay)

	// Network status
	v1.Get("/network/status", h.NetworkStatus)

	// Admin routes (protected by API key)
	admin := app.Group("/admin", authMiddleware)
	admin.Post("/simulate-load", h.SimulateLoad)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, coord *coordinator.Coordinator, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "RelayMesh Coordinator",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, coord, cfg)

	return app
}
