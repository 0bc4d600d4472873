package models

import "time"

// NetworkMetrics is a derived snapshot of network-wide statistics,
// recomputed on a fixed cadence by the metrics aggregator. Read-only
// to callers.
type NetworkMetrics struct {
	TotalNodes              int       `json:"total_nodes"`
	ActiveNodes             int       `json:"active_nodes"`
	TotalStaked             float64   `json:"total_staked"`
	TotalRewardsDistributed float64   `json:"total_rewards_distributed"`
	NetworkUptime           float64   `json:"network_uptime"`  // average uptime over active nodes
	AvgLatency              float64   `json:"avg_latency_ms"`  // average over active nodes
	UpdatedAt               time.Time `json:"updated_at"`
}
