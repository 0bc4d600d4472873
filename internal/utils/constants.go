package utils

import "time"

const (
	// LedgerCallTimeout bounds a single ledger adapter round-trip
	LedgerCallTimeout = 5 * time.Second

	// EventPublishTimeout bounds best-effort lifecycle event publishing
	EventPublishTimeout = 2 * time.Second
)

// QueueType selects the lifecycle event bus backend
type QueueType string

const (
	QueueTypeNATS   QueueType = "nats" // default
	QueueTypeRedis  QueueType = "redis"
	QueueTypeKafka  QueueType = "kafka"
	QueueTypeMemory QueueType = "memory" // tests and single-process runs
)
