package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// FiberMiddleware returns a request-logging middleware. Each request gets a
// request id (honoring X-Request-ID when the caller sends one), and the
// operator id header, when present, is propagated into the request context
// so downstream log lines can attribute work to an operator.
func FiberMiddleware(logger *Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
			c.Set("X-Request-ID", requestID)
		}

		ctx := WithRequestID(c.UserContext(), requestID)
		if operatorID := c.Get("X-Operator-ID"); operatorID != "" {
			ctx = WithOperatorID(ctx, operatorID)
		}
		c.SetUserContext(WithLogger(ctx, logger))

		err := c.Next()

		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
			"request_id", requestID,
		}

		switch status := c.Response().StatusCode(); {
		case err != nil:
			logger.Error("Request failed", append(fields, "error", err)...)
		case status >= fiber.StatusInternalServerError:
			logger.Error("Server error", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("Client error", fields...)
		default:
			logger.Info("Request completed", fields...)
		}

		return err
	}
}
