package events

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Test helper: check if Redis is available
func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return client.Ping(ctx).Err() == nil
}

func getRedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379"
}

func cleanupRedisStream(t *testing.T, client *redis.Client, stream string) {
	t.Helper()
	client.Del(context.Background(), stream)
}

func TestNewRedisBus(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	bus, err := newRedisBus(RedisConfig{
		URL:    getRedisURL(),
		Stream: "test-relaymesh",
		Group:  "test-group",
	})
	if err != nil {
		t.Fatalf("Failed to create Redis bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	if bus.client == nil {
		t.Fatal("Redis client should not be nil")
	}
}

func TestNewRedisBus_InvalidURL(t *testing.T) {
	if _, err := newRedisBus(RedisConfig{URL: "invalid-redis-url:9999"}); err == nil {
		t.Fatal("Expected error for invalid Redis URL")
	}
}

func TestNewRedisBus_Defaults(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	bus, err := newRedisBus(RedisConfig{
		URL: getRedisURL(),
	})
	if err != nil {
		t.Fatalf("Failed to create Redis bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	if bus.config.Stream != "relaymesh" {
		t.Errorf("Expected default stream 'relaymesh', got '%s'", bus.config.Stream)
	}
	if bus.config.Group != "relaymesh-group" {
		t.Errorf("Expected default group 'relaymesh-group', got '%s'", bus.config.Group)
	}
	if bus.config.Consumer == "" {
		t.Error("Consumer should have a default value")
	}
}

func TestRedisBus_Publish(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	bus, err := newRedisBus(RedisConfig{
		URL:    getRedisURL(),
		Stream: "test-publish",
	})
	if err != nil {
		t.Fatalf("Failed to create Redis bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	subject := "relay.node.registered"
	defer cleanupRedisStream(t, bus.client, bus.streamName(subject))

	ctx := context.Background()
	if err := bus.Publish(ctx, subject, []byte(`{"node_id":"node-1"}`)); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	msgs, err := bus.client.XRange(ctx, bus.streamName(subject), "-", "+").Result()
	if err != nil {
		t.Fatalf("Failed to read stream: %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("Expected 1 message in stream, got %d", len(msgs))
	}
}

func TestRedisBus_PublishBatch(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	bus, err := newRedisBus(RedisConfig{
		URL:    getRedisURL(),
		Stream: "test-batch",
	})
	if err != nil {
		t.Fatalf("Failed to create Redis bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	defer cleanupRedisStream(t, bus.client, bus.streamName("relay.node.rewarded"))
	defer cleanupRedisStream(t, bus.client, bus.streamName("relay.node.slashed"))

	messages := []BatchMessage{
		{Subject: "relay.node.rewarded", Data: []byte("msg1")},
		{Subject: "relay.node.rewarded", Data: []byte("msg2")},
		{Subject: "relay.node.slashed", Data: []byte("msg3")},
	}

	count, err := bus.PublishBatch(context.Background(), messages)
	if err != nil {
		t.Fatalf("Failed to batch publish: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 messages published, got %d", count)
	}
}

func TestRedisBus_PublishBatch_Empty(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	bus, err := newRedisBus(RedisConfig{
		URL:    getRedisURL(),
		Stream: "test-empty-batch",
	})
	if err != nil {
		t.Fatalf("Failed to create Redis bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	count, err := bus.PublishBatch(context.Background(), []BatchMessage{})
	if err != nil {
		t.Fatalf("Empty batch should not error: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 messages published, got %d", count)
	}
}

func TestRedisBus_Subscribe(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	bus, err := newRedisBus(RedisConfig{
		URL:      getRedisURL(),
		Stream:   "test-subscribe",
		Group:    fmt.Sprintf("test-group-%d", time.Now().UnixNano()),
		Consumer: "test-consumer",
	})
	if err != nil {
		t.Fatalf("Failed to create Redis bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	subject := "relay.node.offline"
	defer cleanupRedisStream(t, bus.client, bus.streamName(subject))

	var received []byte
	var wg sync.WaitGroup
	wg.Add(1)

	err = bus.Subscribe(subject, func(data []byte) error {
		received = data
		wg.Done()
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	// Give the reader loop time to start
	time.Sleep(100 * time.Millisecond)

	if err := bus.Publish(context.Background(), subject, []byte("node lapsed")); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout waiting for message")
	}

	if string(received) != "node lapsed" {
		t.Errorf("Received %q, want 'node lapsed'", received)
	}

	// Second subscribe on the same subject must fail
	if err := bus.Subscribe(subject, func(data []byte) error { return nil }); err == nil {
		t.Error("Expected error on double subscribe")
	}
}

func TestRedisBus_Unsubscribe(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	bus, err := newRedisBus(RedisConfig{
		URL:    getRedisURL(),
		Stream: "test-unsub",
	})
	if err != nil {
		t.Fatalf("Failed to create Redis bus: %v", err)
	}
	defer func() { _ = bus.Close() }()

	subject := "relay.node.recovered"
	defer cleanupRedisStream(t, bus.client, bus.streamName(subject))

	if err := bus.Unsubscribe(subject); err == nil {
		t.Error("Unsubscribe without subscription should fail")
	}

	if err := bus.Subscribe(subject, func(data []byte) error { return nil }); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	if err := bus.Unsubscribe(subject); err != nil {
		t.Errorf("Unsubscribe failed: %v", err)
	}
}
