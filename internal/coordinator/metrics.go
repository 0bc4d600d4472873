package coordinator

import (
	"time"

	"github.com/relaymesh/relaycoord/internal/models"
)

// MetricsTick recomputes the network-wide metrics snapshot from the node
// store and stores it for status queries. Uptime and latency averages run
// over ACTIVE nodes only; stake totals cover every node currently holding
// a locked stake.
func (c *Coordinator) MetricsTick(now time.Time) models.NetworkMetrics {
	var (
		uptimeSum  float64
		latencySum float64
	)

	snapshot := models.NetworkMetrics{UpdatedAt: now.UTC()}

	for _, node := range c.nodes.List() {
		if node.Status == models.NodeStatusRegistering {
			continue
		}
		snapshot.TotalNodes++
		snapshot.TotalStaked += node.StakeAmount

		if node.Status == models.NodeStatusActive {
			snapshot.ActiveNodes++
			uptimeSum += node.Uptime
			latencySum += node.Performance.AvgLatency
		}
	}

	if snapshot.ActiveNodes > 0 {
		snapshot.NetworkUptime = uptimeSum / float64(snapshot.ActiveNodes)
		snapshot.AvgLatency = latencySum / float64(snapshot.ActiveNodes)
	}

	c.metricsMu.Lock()
	snapshot.TotalRewardsDistributed = c.totalRewards
	c.metrics = snapshot
	c.metricsMu.Unlock()

	return snapshot
}
