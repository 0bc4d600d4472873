// Package events carries the coordinator's lifecycle event stream.
// Publishing is best-effort: the coordinator logs failures and moves on,
// it never fails a caller because an event could not be delivered.
package events

import "context"

// Publisher publishes messages to a bus
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and returns the number
	// of successfully published messages
	PublishBatch(ctx context.Context, messages []BatchMessage) (int, error)

	// Close closes the connection
	Close() error
}

// BatchMessage represents a message for batch publishing
type BatchMessage struct {
	Subject string
	Data    []byte
}

// Subscriber subscribes to messages from a bus
type Subscriber interface {
	// Subscribe subscribes to a subject/topic with a handler
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a subject/topic
	Unsubscribe(subject string) error

	// Close closes the connection
	Close() error
}

// MessageHandler handles incoming messages
type MessageHandler func(data []byte) error

// Bus combines Publisher and Subscriber interfaces
type Bus interface {
	Publisher
	Subscriber
}

// Lifecycle event subjects
const (
	SubjectNodeRegistered   = "relay.node.registered"
	SubjectNodeDeregistered = "relay.node.deregistered"
	SubjectNodeOffline      = "relay.node.offline"
	SubjectNodeRecovered    = "relay.node.recovered"
	SubjectNodeSlashed      = "relay.node.slashed"
	SubjectNodeRewarded     = "relay.node.rewarded"
)

// NodeEvent is the JSON payload published on lifecycle subjects
type NodeEvent struct {
	NodeID     string  `json:"node_id"`
	OperatorID string  `json:"operator_id"`
	CityID     string  `json:"city_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount,omitempty"` // reward, slash or unstake amount
	TxRef      string  `json:"tx_ref,omitempty"`
	Time       string  `json:"time"` // RFC3339
}
