package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/coordinator"
	"github.com/relaymesh/relaycoord/internal/logging"
	"github.com/relaymesh/relaycoord/internal/models"
)

// statusForCode maps coordinator error codes to HTTP statuses
var statusForCode = map[string]int{
	coordinator.CodeInvalidStake:          fiber.StatusBadRequest,
	coordinator.CodeUnknownCity:           fiber.StatusNotFound,
	coordinator.CodeCityAtCapacity:        fiber.StatusConflict,
	coordinator.CodeNotFound:              fiber.StatusNotFound,
	coordinator.CodeUnauthorized:          fiber.StatusForbidden,
	coordinator.CodeSourceNodeUnavailable: fiber.StatusConflict,
	coordinator.CodeLedgerFailure:         fiber.StatusBadGateway,
}

// ErrorHandler returns the app-level error handler. Coordinator errors map
// to their defined HTTP statuses; anything else falls through to fiber's
// status or a plain 500.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if coordErr, ok := coordinator.AsError(err); ok {
			status, known := statusForCode[coordErr.Code]
			if !known {
				status = fiber.StatusInternalServerError
			}

			if status >= fiber.StatusInternalServerError {
				logger.Error("Request failed",
					"path", c.Path(),
					"method", c.Method(),
					"code", coordErr.Code,
					"error", err)
			}

			return c.Status(status).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    coordErr.Code,
					Message: coordErr.Message,
					Path:    c.Path(),
					Details: coordErr.Details,
				},
			})
		}

		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err)

		return c.Status(code).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ERROR",
				Message: message,
				Path:    c.Path(),
			},
		})
	}
}
