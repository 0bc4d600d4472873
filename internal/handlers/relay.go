package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/models"
)

// Relay routes a payload from a source node's hub to a target hub
func (h *Handler) Relay(c *fiber.Ctx) error {
	var req models.RelayRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if req.SourceNodeID == "" {
		return badRequest(c, "source_node_id is required")
	}
	if req.TargetCityID == "" {
		return badRequest(c, "target_city_id is required")
	}

	resp, err := h.coord.Relay(req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
