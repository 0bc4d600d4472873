package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/models"
)

// ListHubs returns the city hub catalog with live aggregates
func (h *Handler) ListHubs(c *fiber.Ctx) error {
	hubs := h.coord.ListCityHubs()
	return c.JSON(models.HubListResponse{
		Hubs:  hubs,
		Count: len(hubs),
	})
}

// GetHub returns a single hub with live aggregates
func (h *Handler) GetHub(c *fiber.Ctx) error {
	hub, err := h.coord.CityHubDetails(c.Params("city_id"))
	if err != nil {
		return err
	}
	return c.JSON(hub)
}
