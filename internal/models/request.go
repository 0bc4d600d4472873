package models

// RegisterNodeRequest represents a node registration request
type RegisterNodeRequest struct {
	OperatorID    string            `json:"operator_id" validate:"required"`
	CityID        string            `json:"city_id" validate:"required"`
	StakeAmount   float64           `json:"stake_amount" validate:"required,gt=0"`
	Hardware      map[string]string `json:"hardware,omitempty"`
	NetworkConfig map[string]string `json:"network_config,omitempty"`
}

// DeregisterNodeRequest represents a node deregistration request
type DeregisterNodeRequest struct {
	OperatorID string `json:"operator_id" validate:"required"`
}

// RelayRequest represents a relay request
type RelayRequest struct {
	SourceNodeID string `json:"source_node_id" validate:"required"`
	TargetCityID string `json:"target_city_id" validate:"required"`
	Payload      string `json:"payload"` // opaque, base64 or raw text
}

// SimulateLoadRequest represents the demo hook that perturbs hub load
// and node latency samples
type SimulateLoadRequest struct {
	Level float64 `json:"level" validate:"gte=0,lte=2"`
}
