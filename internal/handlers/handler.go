// Package handlers contains the HTTP handlers for the coordinator API.
// Handlers parse and validate requests, delegate to the coordinator and
// shape responses; coordinator errors propagate to the app error handler
// for status mapping.
package handlers

import (
	"time"

	"github.com/relaymesh/relaycoord/internal/coordinator"
	"github.com/relaymesh/relaycoord/internal/logging"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger    *logging.Logger
	coord     *coordinator.Coordinator
	startedAt time.Time
}

// New creates a new handler instance
func New(logger *logging.Logger, coord *coordinator.Coordinator) *Handler {
	return &Handler{
		logger:    logger,
		coord:     coord,
		startedAt: time.Now().UTC(),
	}
}
