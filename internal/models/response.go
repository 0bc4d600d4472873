package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
}

// RegisterNodeResponse represents a successful registration
type RegisterNodeResponse struct {
	NodeID           string            `json:"node_id"`
	CityHubName      string            `json:"city_hub_name"`
	Endpoints        map[string]string `json:"endpoints"`
	EstimatedRewards float64           `json:"estimated_rewards"` // projected 30-day payout at current hub load
}

// DeregisterNodeResponse represents a successful deregistration
type DeregisterNodeResponse struct {
	UnstakeTxRef  string  `json:"unstake_tx_ref"`
	FinalRewards  float64 `json:"final_rewards"`
	StakeReturned float64 `json:"stake_returned"`
}

// HeartbeatResponse acknowledges a heartbeat
type HeartbeatResponse struct {
	NodeID   string     `json:"node_id"`
	Status   NodeStatus `json:"status"`
	Received string     `json:"received"`
}

// RelayResponse represents the result of a relay request
type RelayResponse struct {
	RelayID            string    `json:"relay_id"`
	Path               RelayPath `json:"path"`
	Hops               int       `json:"hops"`
	EstimatedLatencyMs float64   `json:"estimated_latency_ms"`
	ActualLatencyMs    float64   `json:"actual_latency_ms"`
}

// NodeListResponse represents a list of nodes
type NodeListResponse struct {
	Nodes []RelayNode `json:"nodes"`
	Count int         `json:"count"`
}

// HubListResponse represents the hub catalog with live aggregates
type HubListResponse struct {
	Hubs  []CityHubView `json:"hubs"`
	Count int           `json:"count"`
}

// SimulateLoadResponse reports the applied load levels per hub
type SimulateLoadResponse struct {
	Applied map[string]float64 `json:"applied"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
