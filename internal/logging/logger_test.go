package logging

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relaymesh/relaycoord/internal/config"
)

// fileLogger builds a JSON logger writing to a temp file and returns a
// reader for its lines
func fileLogger(t *testing.T) (*Logger, func() []map[string]interface{}) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := NewFromConfig(config.LoggingConfig{
		Level:      "debug",
		Format:     "json",
		OutputPath: path,
	})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}

	read := func() []map[string]interface{} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read log file: %v", err)
		}
		var lines []map[string]interface{}
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			if line == "" {
				continue
			}
			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("Invalid log line %q: %v", line, err)
			}
			lines = append(lines, entry)
		}
		return lines
	}

	return logger, read
}

func TestLogger_KeyValueFields(t *testing.T) {
	logger, read := fileLogger(t)

	logger.Info("Node registered", "node_id", "node-1", "stake", 1500.0)

	lines := read()
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(lines))
	}
	if lines[0]["message"] != "Node registered" {
		t.Errorf("message = %v", lines[0]["message"])
	}
	if lines[0]["node_id"] != "node-1" {
		t.Errorf("node_id = %v", lines[0]["node_id"])
	}
	if lines[0]["stake"] != 1500.0 {
		t.Errorf("stake = %v", lines[0]["stake"])
	}
}

func TestLogger_ErrorField(t *testing.T) {
	logger, read := fileLogger(t)

	logger.Error("Ledger call failed", "error", errors.New("timeout"))

	lines := read()
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(lines))
	}
	if lines[0]["error"] != "timeout" {
		t.Errorf("error = %v, want timeout", lines[0]["error"])
	}
	if lines[0]["level"] != "error" {
		t.Errorf("level = %v", lines[0]["level"])
	}
}

func TestLogger_DanglingKeyDropped(t *testing.T) {
	logger, read := fileLogger(t)

	logger.Info("odd fields", "key_a", "val_a", "dangling")

	lines := read()
	if lines[0]["key_a"] != "val_a" {
		t.Errorf("key_a = %v", lines[0]["key_a"])
	}
	if _, present := lines[0]["dangling"]; present {
		t.Error("Dangling key should be dropped")
	}
}

func TestLogger_WithBindsFields(t *testing.T) {
	logger, read := fileLogger(t)

	child := logger.With("city_id", "NYC")
	child.Info("hub event")
	logger.Info("plain event")

	lines := read()
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["city_id"] != "NYC" {
		t.Errorf("Child line missing bound field: %v", lines[0])
	}
	if _, present := lines[1]["city_id"]; present {
		t.Error("Parent logger must not inherit child fields")
	}
}

func TestLogger_WithContext(t *testing.T) {
	logger, read := fileLogger(t)

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithOperatorID(ctx, "op-1")

	logger.WithContext(ctx).Info("scoped")

	lines := read()
	if lines[0]["request_id"] != "req-123" {
		t.Errorf("request_id = %v", lines[0]["request_id"])
	}
	if lines[0]["operator_id"] != "op-1" {
		t.Errorf("operator_id = %v", lines[0]["operator_id"])
	}
}

func TestFromContext_FallsBackToGlobal(t *testing.T) {
	if FromContext(context.Background()) != Global() {
		t.Error("Expected global logger for bare context")
	}

	logger := NewDevelopment()
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("Expected context logger to take precedence")
	}
}

func TestNewFromConfig_LevelFallback(t *testing.T) {
	logger, err := NewFromConfig(config.LoggingConfig{Level: "verbose"})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	if logger == nil {
		t.Fatal("Expected logger")
	}
}
