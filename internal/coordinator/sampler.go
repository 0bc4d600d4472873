package coordinator

import (
	"math/rand"
	"sync"

	"github.com/relaymesh/relaycoord/internal/models"
)

// PerformanceSampler supplies latency and success-rate measurements for a
// node. Production deployments plug in a real telemetry feed; the default
// synthesizes plausible values.
type PerformanceSampler interface {
	// Sample returns (avgLatencyMs, successRate) for the node given the
	// current synthetic load of its hub
	Sample(node models.RelayNode, hubLoad float64) (float64, float64)
}

// SyntheticSampler synthesizes latency and success-rate samples.
// Latency scales with hub load; success rates stay in healthy territory
// so slashing in practice is driven by uptime.
type SyntheticSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticSampler creates a sampler with the given seed
func NewSyntheticSampler(seed int64) *SyntheticSampler {
	return &SyntheticSampler{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Sample synthesizes one measurement pair
func (s *SyntheticSampler) Sample(node models.RelayNode, hubLoad float64) (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 20-80ms at nominal load, scaled up to 2x under heavy load
	latency := (20 + s.rng.Float64()*60) * (0.5 + hubLoad/2)

	successRate := 0.9 + s.rng.Float64()*0.1

	return latency, successRate
}
