package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/models"
)

// Health reports coordinator liveness and process uptime
func (h *Handler) Health(c *fiber.Ctx) error {
	now := time.Now().UTC()
	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Timestamp: now.Format(time.RFC3339),
		Version:   "1.0.0",
		Uptime:    now.Sub(h.startedAt).Round(time.Second).String(),
	})
}

// NotFound is the terminal handler for unmatched routes
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found: " + c.Method() + " " + c.Path(),
			Path:    c.Path(),
		},
	})
}
