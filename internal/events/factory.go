package events

import (
	"fmt"
	"strings"

	"github.com/relaymesh/relaycoord/internal/config"
	"github.com/relaymesh/relaycoord/internal/utils"
)

// NewBus creates a new Bus instance based on configuration.
// Default is NATS if type is not specified.
func NewBus(cfg config.QueueConfig) (Bus, error) {
	busType := utils.QueueType(strings.ToLower(cfg.Type))

	// Default to NATS if not specified
	if busType == "" {
		busType = utils.QueueTypeNATS
	}

	switch busType {
	case utils.QueueTypeNATS:
		return newNATSBus(cfg.URL)

	case utils.QueueTypeRedis:
		return newRedisBus(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case utils.QueueTypeKafka:
		return newKafkaBus(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	case utils.QueueTypeMemory:
		return NewMemoryBus(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", busType)
	}
}

// NewPublisher creates a new Publisher instance based on configuration.
// This is a convenience function when only publishing is needed.
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	return NewBus(cfg)
}
