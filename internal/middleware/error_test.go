package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/relaymesh/relaycoord/internal/coordinator"
	"github.com/relaymesh/relaycoord/internal/logging"
	"github.com/relaymesh/relaycoord/internal/models"
)

func setupErrorApp(t *testing.T, err error) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(logging.NewDevelopment()),
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandler_CoordinatorCodes(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{coordinator.CodeInvalidStake, fiber.StatusBadRequest},
		{coordinator.CodeUnknownCity, fiber.StatusNotFound},
		{coordinator.CodeCityAtCapacity, fiber.StatusConflict},
		{coordinator.CodeNotFound, fiber.StatusNotFound},
		{coordinator.CodeUnauthorized, fiber.StatusForbidden},
		{coordinator.CodeSourceNodeUnavailable, fiber.StatusConflict},
		{coordinator.CodeLedgerFailure, fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := setupErrorApp(t, coordinator.NewError(tt.code, "some message"))

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("Status = %d, want %d", resp.StatusCode, tt.want)
			}

			body, _ := io.ReadAll(resp.Body)
			var errResp models.ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("Invalid error body: %v", err)
			}
			if errResp.Error.Code != tt.code {
				t.Errorf("Body code = %s, want %s", errResp.Error.Code, tt.code)
			}
			if errResp.Error.Path != "/fail" {
				t.Errorf("Body path = %s, want /fail", errResp.Error.Path)
			}
		})
	}
}

func TestErrorHandler_FiberError(t *testing.T) {
	app := setupErrorApp(t, fiber.ErrTeapot)

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Errorf("Status = %d, want 418", resp.StatusCode)
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	app := setupErrorApp(t, errors.New("something broke"))

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", resp.StatusCode)
	}
}
