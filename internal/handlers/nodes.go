package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/models"
)

// RegisterNode registers a new relay node
func (h *Handler) RegisterNode(c *fiber.Ctx) error {
	var req models.RegisterNodeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if req.OperatorID == "" {
		return badRequest(c, "operator_id is required")
	}
	if req.CityID == "" {
		return badRequest(c, "city_id is required")
	}

	resp, err := h.coord.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeregisterNode deregisters a node, releasing its stake. The operator is
// taken from the request body, falling back to the X-Operator-ID header.
func (h *Handler) DeregisterNode(c *fiber.Ctx) error {
	nodeID := c.Params("node_id")

	var req models.DeregisterNodeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
	}
	operatorID := req.OperatorID
	if operatorID == "" {
		operatorID = c.Get("X-Operator-ID")
	}
	if operatorID == "" {
		return badRequest(c, "operator_id is required")
	}

	resp, err := h.coord.Deregister(c.Context(), nodeID, operatorID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Heartbeat records a heartbeat from a node
func (h *Handler) Heartbeat(c *fiber.Ctx) error {
	nodeID := c.Params("node_id")

	node, err := h.coord.RecordHeartbeat(nodeID)
	if err != nil {
		return err
	}

	return c.JSON(models.HeartbeatResponse{
		NodeID:   node.ID,
		Status:   node.Status,
		Received: time.Now().UTC().Format(time.RFC3339),
	})
}

// GetNode returns the details of a single node
func (h *Handler) GetNode(c *fiber.Ctx) error {
	node, err := h.coord.NodeDetails(c.Params("node_id"))
	if err != nil {
		return err
	}
	return c.JSON(node)
}

// ListNodes lists nodes, filtered by operator
func (h *Handler) ListNodes(c *fiber.Ctx) error {
	operatorID := c.Query("operator_id")
	if operatorID == "" {
		return badRequest(c, "operator_id query parameter is required")
	}

	nodes := h.coord.NodesByOperator(operatorID)
	return c.JSON(models.NodeListResponse{
		Nodes: nodes,
		Count: len(nodes),
	})
}

// badRequest writes a 400 with the shared error envelope
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: message,
			Path:    c.Path(),
		},
	})
}
