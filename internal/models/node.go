package models

import "time"

// NodeStatus represents the lifecycle state of a relay node
type NodeStatus string

const (
	// NodeStatusRegistering is the transient state while the stake lock is in flight.
	// Nodes in this state are invisible to queries but count against hub capacity.
	NodeStatusRegistering NodeStatus = "registering"

	// NodeStatusActive means the node is staked, heartbeating and eligible for relays
	NodeStatusActive NodeStatus = "active"

	// NodeStatusOffline means heartbeats have lapsed beyond the offline threshold
	NodeStatusOffline NodeStatus = "offline"

	// NodeStatusSlashed means the node was penalized for sustained poor performance
	NodeStatusSlashed NodeStatus = "slashed"

	// NodeStatusDeregistering is the transient state while the unstake is in flight
	NodeStatusDeregistering NodeStatus = "deregistering"
)

// GeoPoint is a latitude/longitude pair in decimal degrees
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NodePerformance holds the per-node counters mutated by the relay router
// and the performance monitor
type NodePerformance struct {
	AvgLatency            float64 `json:"avg_latency_ms"`
	SuccessRate           float64 `json:"success_rate"`
	TransactionsProcessed int64   `json:"transactions_processed"`
	DataRelayed           int64   `json:"data_relayed_bytes"`
}

// SlashEvent is one entry in a node's slash history
type SlashEvent struct {
	Time   time.Time `json:"time"`
	Reason string    `json:"reason"`
	Amount float64   `json:"amount"`
	TxRef  string    `json:"tx_ref"`
}

// RelayNode is the authoritative record for a registered relay node.
// ID and CityID are immutable after registration; a node never migrates
// between hubs.
type RelayNode struct {
	ID            string            `json:"id"`
	OperatorID    string            `json:"operator_id"`
	CityID        string            `json:"city_id"`
	Location      GeoPoint          `json:"location"` // jittered within the hub vicinity, display only
	StakeAmount   float64           `json:"stake_amount"`
	Status        NodeStatus        `json:"status"`
	RegisteredAt  time.Time         `json:"registered_at"`
	LastHeartbeat time.Time         `json:"last_heartbeat"`
	Uptime        float64           `json:"uptime"` // fraction in [0,1], recomputed each heartbeat tick
	TotalRewards  float64           `json:"total_rewards"`
	Performance   NodePerformance   `json:"performance"`
	Hardware      map[string]string `json:"hardware,omitempty"`
	NetworkConfig map[string]string `json:"network_config,omitempty"`
	SlashHistory  []SlashEvent      `json:"slash_history,omitempty"`
}

// Clone returns a deep copy so callers can hold a node snapshot without
// racing against store mutations
func (n RelayNode) Clone() RelayNode {
	out := n
	if n.Hardware != nil {
		out.Hardware = make(map[string]string, len(n.Hardware))
		for k, v := range n.Hardware {
			out.Hardware[k] = v
		}
	}
	if n.NetworkConfig != nil {
		out.NetworkConfig = make(map[string]string, len(n.NetworkConfig))
		for k, v := range n.NetworkConfig {
			out.NetworkConfig[k] = v
		}
	}
	if n.SlashHistory != nil {
		out.SlashHistory = append([]SlashEvent(nil), n.SlashHistory...)
	}
	return out
}
