package coordinator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/relaymesh/relaycoord/internal/events"
	"github.com/relaymesh/relaycoord/internal/models"
	"github.com/relaymesh/relaycoord/internal/utils"
)

// RewardTick pays one reward cycle to every eligible node. Eligibility is
// ACTIVE status plus uptime at or above the configured threshold. A ledger
// failure for one node is logged and skipped; it never blocks the rest of
// the batch.
func (c *Coordinator) RewardTick(ctx context.Context) {
	var (
		paid        int
		distributed float64
		batch       []events.BatchMessage
	)

	for _, node := range c.nodes.List() {
		if node.Status != models.NodeStatusActive {
			continue
		}
		if node.Uptime < c.cfg.UptimeThreshold {
			c.logger.Debug("Node below uptime threshold, skipping reward",
				"node_id", node.ID,
				"uptime", node.Uptime,
				"threshold", c.cfg.UptimeThreshold)
			continue
		}

		payout := c.hourlyPayout(node, c.hubs.Load(node.CityID))

		callCtx, cancel := context.WithTimeout(ctx, utils.LedgerCallTimeout)
		tx, err := c.ledger.PayReward(callCtx, node, payout)
		cancel()
		if err != nil {
			c.logger.Error("Reward payout failed",
				"node_id", node.ID,
				"amount", payout,
				"error", err)
			continue
		}

		c.nodes.Update(node.ID, func(n *models.RelayNode) {
			n.TotalRewards += payout
		})

		paid++
		distributed += payout

		if data, err := json.Marshal(events.NodeEvent{
			NodeID:     node.ID,
			OperatorID: node.OperatorID,
			CityID:     node.CityID,
			Status:     string(models.NodeStatusActive),
			Amount:     payout,
			TxRef:      tx.TxRef,
			Time:       time.Now().UTC().Format(time.RFC3339),
		}); err == nil {
			batch = append(batch, events.BatchMessage{
				Subject: events.SubjectNodeRewarded,
				Data:    data,
			})
		}
	}

	if distributed > 0 {
		c.metricsMu.Lock()
		c.totalRewards += distributed
		c.metricsMu.Unlock()
	}

	if len(batch) > 0 && c.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, utils.EventPublishTimeout)
		published, err := c.publisher.PublishBatch(pubCtx, batch)
		cancel()
		if err != nil {
			c.logger.Warn("Reward event batch partially published",
				"published", published,
				"total", len(batch),
				"error", err)
		}
	}

	c.logger.Info("Reward cycle completed", "nodes_paid", paid, "distributed", distributed)
}
