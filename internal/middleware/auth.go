package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/logging"
	"github.com/relaymesh/relaycoord/internal/models"
)

// MinAPIKeyLength is the minimum accepted API key length
const MinAPIKeyLength = 32

// ValidateAPIKey reports whether a configured key is usable
func ValidateAPIKey(key string) bool {
	return len(key) >= MinAPIKeyLength && strings.TrimSpace(key) != ""
}

// extractKey pulls the API key from the request. X-API-Key wins; the
// Authorization header is accepted with or without a Bearer prefix.
func extractKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}
	auth := c.Get("Authorization")
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return auth
}

func matchKey(candidate string, keys []string) bool {
	ok := false
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1 {
			ok = true
		}
	}
	return ok
}

// APIKeyAuth returns an API key authentication middleware. With enabled
// false it passes every request through unchanged.
func APIKeyAuth(logger *logging.Logger, apiKeys []string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	valid := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("Rejecting configured API key below minimum length",
				"key_length", len(key),
				"min_length", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key))
			continue
		}
		valid = append(valid, key)
	}

	if len(valid) == 0 && len(apiKeys) > 0 {
		logger.Error("Auth enabled but no configured API key is usable",
			"configured", len(apiKeys),
			"min_length", MinAPIKeyLength)
	}

	return func(c *fiber.Ctx) error {
		key := extractKey(c)

		if key == "" {
			logger.Warn("Request without API key",
				"path", c.Path(), "method", c.Method(), "ip", c.IP())
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}

		if !matchKey(key, valid) {
			logger.Warn("Request with invalid API key",
				"path", c.Path(), "method", c.Method(), "ip", c.IP(),
				"key_prefix", maskAPIKey(key))
			return unauthorized(c, "Invalid API key.")
		}

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNAUTHORIZED",
			Message: message,
		},
	})
}

// maskAPIKey keeps only the first 4 characters for log output
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
