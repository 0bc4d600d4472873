package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/logging"
)

const testKey = "0123456789abcdef0123456789abcdef"

func setupAuthApp(t *testing.T, apiKeys []string, enabled bool) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(APIKeyAuth(logging.NewDevelopment(), apiKeys, enabled))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"valid key", testKey, true},
		{"too short", "short", false},
		{"empty", "", false},
		{"whitespace only", "                                ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateAPIKey(tt.key); got != tt.want {
				t.Errorf("ValidateAPIKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	app := setupAuthApp(t, []string{testKey}, true)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", resp.StatusCode)
	}
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	app := setupAuthApp(t, []string{testKey}, true)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("X-API-Key", "ffffffffffffffffffffffffffffffff")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", resp.StatusCode)
	}
}

func TestAPIKeyAuth_ValidKeyHeaders(t *testing.T) {
	app := setupAuthApp(t, []string{testKey}, true)

	headers := []struct {
		name  string
		key   string
		value string
	}{
		{"X-API-Key", "X-API-Key", testKey},
		{"Bearer", "Authorization", "Bearer " + testKey},
		{"plain Authorization", "Authorization", testKey},
	}

	for _, h := range headers {
		t.Run(h.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set(h.key, h.value)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusOK {
				t.Errorf("Status = %d, want 200", resp.StatusCode)
			}
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	app := setupAuthApp(t, nil, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Status = %d, want 200 when auth is disabled", resp.StatusCode)
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("abcdefgh"); got != "abcd****" {
		t.Errorf("maskAPIKey = %q, want abcd****", got)
	}
	if got := maskAPIKey("ab"); got != "****" {
		t.Errorf("maskAPIKey short = %q, want ****", got)
	}
}
