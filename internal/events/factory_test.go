package events

import (
	"strings"
	"testing"

	"github.com/relaymesh/relaycoord/internal/config"
)

func TestNewBus_MemoryBus(t *testing.T) {
	bus, err := NewBus(config.QueueConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Failed to create memory bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	if _, ok := bus.(*MemoryBus); !ok {
		t.Errorf("Expected *MemoryBus, got %T", bus)
	}
}

func TestNewBus_CaseInsensitive(t *testing.T) {
	bus, err := NewBus(config.QueueConfig{Type: "Memory"})
	if err != nil {
		t.Fatalf("Failed to create memory bus: %v", err)
	}
	defer func() { _ = bus.Close() }()
}

func TestNewBus_UnsupportedType(t *testing.T) {
	_, err := NewBus(config.QueueConfig{Type: "rabbitmq"})
	if err == nil {
		t.Fatal("Expected error for unsupported queue type")
	}
	if !strings.Contains(err.Error(), "rabbitmq") {
		t.Errorf("Error should name the bad type: %v", err)
	}
}

func TestNewPublisher_MemoryBus(t *testing.T) {
	pub, err := NewPublisher(config.QueueConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Failed to create publisher: %v", err)
	}
	if pub == nil {
		t.Fatal("Publisher should not be nil")
	}
}
