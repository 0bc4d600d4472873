package models

// CityHub is a fixed geographic point aggregating relay node capacity.
// The catalog entry is static after startup; live aggregates are derived
// from the node store at read time (see CityHubView).
type CityHub struct {
	ID       string   `json:"id" mapstructure:"id"`
	Name     string   `json:"name" mapstructure:"name"`
	Location GeoPoint `json:"location" mapstructure:"location"`
	Region   string   `json:"region" mapstructure:"region"`
	Capacity int      `json:"capacity" mapstructure:"capacity"` // max concurrent nodes
	Regional bool     `json:"regional" mapstructure:"regional"` // designated regional routing hub
}

// CityHubView is a hub plus its live aggregates, recomputed on read
type CityHubView struct {
	CityHub
	ActiveNodes int     `json:"active_nodes"`
	TotalStaked float64 `json:"total_staked"`
	Load        float64 `json:"load"` // synthetic utilization in [0, 2]
	AvgLatency  float64 `json:"avg_latency_ms"`
}

// RelayHop is one hop of a relay path
type RelayHop struct {
	CityID     string  `json:"city_id"`
	NodeID     string  `json:"node_id,omitempty"` // empty when no active node was available in the hub
	DistanceKm float64 `json:"distance_km"`       // great-circle distance from the previous hop
}

// RelayPath is the ordered hop sequence for a single relay request.
// Produced fresh per request, never persisted.
type RelayPath []RelayHop

// TotalDistanceKm returns the cumulative hop distance of the path
func (p RelayPath) TotalDistanceKm() float64 {
	var total float64
	for _, hop := range p {
		total += hop.DistanceKm
	}
	return total
}
