package coordinator

import (
	"time"

	"github.com/relaymesh/relaycoord/internal/events"
	"github.com/relaymesh/relaycoord/internal/models"
)

// HeartbeatTick sweeps the node store once: nodes whose last heartbeat has
// lapsed beyond the offline threshold are marked OFFLINE, and every node's
// uptime fraction is recomputed against its lifetime. Recovery is driven by
// the heartbeat endpoint, not by this sweep.
func (c *Coordinator) HeartbeatTick(now time.Time) {
	var wentOffline []models.RelayNode

	for _, node := range c.nodes.List() {
		switch node.Status {
		case models.NodeStatusRegistering, models.NodeStatusDeregistering:
			continue
		}

		elapsed := now.Sub(node.LastHeartbeat)
		lapsed := elapsed > c.cfg.OfflineThreshold

		c.nodes.Update(node.ID, func(n *models.RelayNode) {
			if lapsed && n.Status == models.NodeStatusActive {
				n.Status = models.NodeStatusOffline
				wentOffline = append(wentOffline, *n)
			}
			n.Uptime = uptimeFraction(now, n.RegisteredAt, elapsed, c.cfg.OfflineThreshold)
		})
	}

	for _, node := range wentOffline {
		c.logger.Warn("Node went offline",
			"node_id", node.ID,
			"city_id", node.CityID,
			"last_heartbeat", node.LastHeartbeat)

		c.emit(events.SubjectNodeOffline, events.NodeEvent{
			NodeID:     node.ID,
			OperatorID: node.OperatorID,
			CityID:     node.CityID,
			Status:     string(models.NodeStatusOffline),
		})
	}
}

// uptimeFraction computes the share of a node's lifetime it has been
// reachable. Only the portion of the current heartbeat lapse beyond the
// offline threshold counts as downtime; a node heartbeating on schedule
// stays at 1.0.
func uptimeFraction(now, registeredAt time.Time, elapsed, threshold time.Duration) float64 {
	lifetime := now.Sub(registeredAt)
	if lifetime <= 0 {
		return 1.0
	}

	down := elapsed - threshold
	if down < 0 {
		down = 0
	}
	if down > lifetime {
		down = lifetime
	}

	return float64(lifetime-down) / float64(lifetime)
}
