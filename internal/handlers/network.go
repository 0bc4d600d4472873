package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/models"
)

// NetworkStatus returns the latest network metrics snapshot
func (h *Handler) NetworkStatus(c *fiber.Ctx) error {
	return c.JSON(h.coord.NetworkStatus())
}

// SimulateLoad applies a synthetic load level across all hubs (demo hook)
func (h *Handler) SimulateLoad(c *fiber.Ctx) error {
	var req models.SimulateLoadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if req.Level < 0 || req.Level > 2 {
		return badRequest(c, "level must be in [0, 2]")
	}

	h.logger.Info("Load simulation requested", "level", req.Level)

	return c.JSON(models.SimulateLoadResponse{
		Applied: h.coord.SimulateLoad(req.Level),
	})
}
