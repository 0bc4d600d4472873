package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/relaymesh/relaycoord/internal/events"
	"github.com/relaymesh/relaycoord/internal/models"
	"github.com/relaymesh/relaycoord/internal/utils"
)

// PerformanceTick refreshes latency and success-rate samples for active
// nodes, then slashes any node whose uptime or success rate has fallen
// below the network floors. A node is slashed at most once: SLASHED nodes
// are skipped entirely, and the stake reduction is applied only after the
// ledger confirms the transaction.
func (c *Coordinator) PerformanceTick(ctx context.Context) {
	for _, node := range c.nodes.List() {
		switch node.Status {
		case models.NodeStatusRegistering, models.NodeStatusDeregistering, models.NodeStatusSlashed:
			continue
		}

		if node.Status == models.NodeStatusActive {
			latency, successRate := c.sampler.Sample(node, c.hubs.Load(node.CityID))
			c.nodes.Update(node.ID, func(n *models.RelayNode) {
				n.Performance.AvgLatency = latency
				n.Performance.SuccessRate = successRate
			})
			node.Performance.AvgLatency = latency
			node.Performance.SuccessRate = successRate
		}

		reason := slashReason(node)
		if reason == "" {
			continue
		}

		c.slash(ctx, node, reason)
	}
}

// slashReason returns a non-empty reason string when the node breaches a
// slashing floor
func slashReason(node models.RelayNode) string {
	if node.Uptime < slashUptimeFloor {
		return fmt.Sprintf("uptime %.3f below %.2f floor", node.Uptime, slashUptimeFloor)
	}
	if node.Performance.SuccessRate < slashSuccessRateFloor {
		return fmt.Sprintf("success rate %.3f below %.2f floor", node.Performance.SuccessRate, slashSuccessRateFloor)
	}
	return ""
}

func (c *Coordinator) slash(ctx context.Context, node models.RelayNode, reason string) {
	amount := node.StakeAmount * c.cfg.SlashPercentage

	callCtx, cancel := context.WithTimeout(ctx, utils.LedgerCallTimeout)
	tx, err := c.ledger.Slash(callCtx, node, amount)
	cancel()
	if err != nil {
		// Node stays in its current state; the next tick retries
		c.logger.Error("Slash transaction failed",
			"node_id", node.ID,
			"amount", amount,
			"error", err)
		return
	}

	c.nodes.Update(node.ID, func(n *models.RelayNode) {
		n.StakeAmount -= amount
		n.Status = models.NodeStatusSlashed
		n.SlashHistory = append(n.SlashHistory, models.SlashEvent{
			Time:   time.Now().UTC(),
			Reason: reason,
			Amount: amount,
			TxRef:  tx.TxRef,
		})
	})

	c.logger.Warn("Node slashed",
		"node_id", node.ID,
		"city_id", node.CityID,
		"amount", amount,
		"reason", reason,
		"tx_ref", tx.TxRef)

	c.emit(events.SubjectNodeSlashed, events.NodeEvent{
		NodeID:     node.ID,
		OperatorID: node.OperatorID,
		CityID:     node.CityID,
		Status:     string(models.NodeStatusSlashed),
		Amount:     amount,
		TxRef:      tx.TxRef,
	})
}
