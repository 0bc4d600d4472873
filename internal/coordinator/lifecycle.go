package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/relaymesh/relaycoord/internal/events"
	"github.com/relaymesh/relaycoord/internal/models"
)

// hoursPerMonth is used for the projected reward estimate at registration
const hoursPerMonth = 24 * 30

// Register validates and registers a new relay node.
//
// The node is inserted in REGISTERING state before the stake-lock round
// trip so the hub slot is held against concurrent registrations; it is
// removed again if the ledger call fails, so a failed registration leaves
// no record behind.
func (c *Coordinator) Register(ctx context.Context, req models.RegisterNodeRequest) (models.RegisterNodeResponse, error) {
	if req.StakeAmount < c.cfg.MinStakeAmount {
		return models.RegisterNodeResponse{}, errInvalidStake(c.cfg.MinStakeAmount, req.StakeAmount)
	}

	hub, ok := c.hubs.Get(req.CityID)
	if !ok {
		return models.RegisterNodeResponse{}, errUnknownCity(req.CityID)
	}

	now := time.Now()
	node := models.RelayNode{
		ID:            uuid.New().String(),
		OperatorID:    req.OperatorID,
		CityID:        hub.ID,
		Location:      jitterLocation(hub.Location),
		StakeAmount:   req.StakeAmount,
		Status:        models.NodeStatusRegistering,
		RegisteredAt:  now,
		LastHeartbeat: now,
		Uptime:        1.0,
		Performance: models.NodePerformance{
			SuccessRate: 1.0,
		},
		Hardware:      req.Hardware,
		NetworkConfig: req.NetworkConfig,
	}

	// Capacity check and insert must be atomic with respect to other
	// registrations targeting the same hub
	c.regMu.Lock()
	occupied := c.nodes.CountInCity(hub.ID,
		models.NodeStatusActive, models.NodeStatusRegistering)
	if occupied >= hub.Capacity {
		c.regMu.Unlock()
		return models.RegisterNodeResponse{}, errCityAtCapacity(hub.ID, hub.Capacity)
	}
	c.nodes.Insert(node)
	c.regMu.Unlock()

	tx, err := c.ledger.LockStake(ctx, node)
	if err != nil {
		// Discard the in-progress node; it must never become visible
		c.nodes.Remove(node.ID)
		c.logger.Error("Stake lock failed, registration discarded",
			"node_id", node.ID, "city_id", hub.ID, "error", err)
		return models.RegisterNodeResponse{}, errLedgerFailure(err)
	}

	c.nodes.Update(node.ID, func(n *models.RelayNode) {
		n.Status = models.NodeStatusActive
	})

	c.logger.Info("Node registered",
		"node_id", node.ID,
		"operator_id", node.OperatorID,
		"city_id", hub.ID,
		"stake", node.StakeAmount,
		"tx_ref", tx.TxRef)

	c.emit(events.SubjectNodeRegistered, events.NodeEvent{
		NodeID:     node.ID,
		OperatorID: node.OperatorID,
		CityID:     hub.ID,
		Status:     string(models.NodeStatusActive),
		Amount:     node.StakeAmount,
		TxRef:      tx.TxRef,
	})

	// Projected 30-day payout assuming perfect uptime/success at current load
	estimated := c.hourlyPayout(node, c.hubs.Load(hub.ID)) * hoursPerMonth

	return models.RegisterNodeResponse{
		NodeID:      node.ID,
		CityHubName: hub.Name,
		Endpoints: map[string]string{
			"relay":     fmt.Sprintf("relay://%s/%s", strings.ToLower(hub.ID), node.ID),
			"heartbeat": fmt.Sprintf("/v1/nodes/%s/heartbeat", node.ID),
		},
		EstimatedRewards: estimated,
	}, nil
}

// Deregister removes a node, releasing its stake and paying final rewards.
//
// Final rewards use wall-clock hours since registration, not ACTIVE-only
// time; this intentionally matches the reference accounting.
func (c *Coordinator) Deregister(ctx context.Context, nodeID, operatorID string) (models.DeregisterNodeResponse, error) {
	node, ok := c.nodes.Get(nodeID)
	if !ok || node.Status == models.NodeStatusRegistering {
		return models.DeregisterNodeResponse{}, errNodeNotFound(nodeID)
	}

	if node.OperatorID != operatorID {
		return models.DeregisterNodeResponse{}, errUnauthorized(nodeID)
	}

	// Claim the node for deregistration under the store lock so two
	// concurrent deregistrations cannot both proceed
	var prev models.NodeStatus
	claimed := false
	c.nodes.Update(nodeID, func(n *models.RelayNode) {
		if n.Status == models.NodeStatusDeregistering || n.Status == models.NodeStatusRegistering {
			return
		}
		prev = n.Status
		n.Status = models.NodeStatusDeregistering
		claimed = true
	})
	if !claimed {
		return models.DeregisterNodeResponse{}, errNodeNotFound(nodeID)
	}

	// Final settlement is the pre-fee hourly reward over the node's
	// wall-clock lifetime; the network fee applies to periodic payouts only.
	hoursActive := time.Since(node.RegisteredAt).Hours()
	finalRewards := hoursActive * c.hourlyReward(node, c.hubs.Load(node.CityID))

	release, err := c.ledger.ReleaseStake(ctx, node, finalRewards)
	if err != nil {
		// Put the node back the way it was
		c.nodes.Update(nodeID, func(n *models.RelayNode) {
			n.Status = prev
		})
		c.logger.Error("Unstake failed, deregistration aborted",
			"node_id", nodeID, "error", err)
		return models.DeregisterNodeResponse{}, errLedgerFailure(err)
	}

	c.nodes.Remove(nodeID)

	c.logger.Info("Node deregistered",
		"node_id", nodeID,
		"operator_id", operatorID,
		"final_rewards", finalRewards,
		"stake_returned", release.StakeReturned,
		"tx_ref", release.TxRef)

	c.emit(events.SubjectNodeDeregistered, events.NodeEvent{
		NodeID:     nodeID,
		OperatorID: operatorID,
		CityID:     node.CityID,
		Status:     string(models.NodeStatusDeregistering),
		Amount:     release.StakeReturned,
		TxRef:      release.TxRef,
	})

	return models.DeregisterNodeResponse{
		UnstakeTxRef:  release.TxRef,
		FinalRewards:  finalRewards,
		StakeReturned: release.StakeReturned,
	}, nil
}

// RecordHeartbeat ingests a heartbeat from a node. An OFFLINE node that
// heartbeats again returns to ACTIVE; a SLASHED node does not.
func (c *Coordinator) RecordHeartbeat(nodeID string) (models.RelayNode, error) {
	recovered := false
	found := c.nodes.Update(nodeID, func(n *models.RelayNode) {
		n.LastHeartbeat = time.Now()
		if n.Status == models.NodeStatusOffline {
			n.Status = models.NodeStatusActive
			recovered = true
		}
	})
	if !found {
		return models.RelayNode{}, errNodeNotFound(nodeID)
	}

	node, _ := c.nodes.Get(nodeID)
	if node.Status == models.NodeStatusRegistering {
		return models.RelayNode{}, errNodeNotFound(nodeID)
	}

	if recovered {
		c.logger.Info("Node back online", "node_id", nodeID, "city_id", node.CityID)
		c.emit(events.SubjectNodeRecovered, events.NodeEvent{
			NodeID:     node.ID,
			OperatorID: node.OperatorID,
			CityID:     node.CityID,
			Status:     string(node.Status),
		})
	}

	return node, nil
}

// NodeDetails returns a node by ID. Nodes still REGISTERING are invisible.
func (c *Coordinator) NodeDetails(nodeID string) (models.RelayNode, error) {
	node, ok := c.nodes.Get(nodeID)
	if !ok || node.Status == models.NodeStatusRegistering {
		return models.RelayNode{}, errNodeNotFound(nodeID)
	}
	return node, nil
}

// NodesByOperator returns all visible nodes owned by an operator
func (c *Coordinator) NodesByOperator(operatorID string) []models.RelayNode {
	all := c.nodes.ListByOperator(operatorID)
	out := make([]models.RelayNode, 0, len(all))
	for _, node := range all {
		if node.Status == models.NodeStatusRegistering {
			continue
		}
		out = append(out, node)
	}
	return out
}

// CityHubDetails returns a hub with its live aggregates
func (c *Coordinator) CityHubDetails(cityID string) (models.CityHubView, error) {
	hub, ok := c.hubs.Get(cityID)
	if !ok {
		return models.CityHubView{}, errUnknownCity(cityID)
	}
	return c.hubView(hub), nil
}

// ListCityHubs returns every hub with live aggregates
func (c *Coordinator) ListCityHubs() []models.CityHubView {
	catalog := c.hubs.List()
	out := make([]models.CityHubView, 0, len(catalog))
	for _, hub := range catalog {
		out = append(out, c.hubView(hub))
	}
	return out
}

// NetworkStatus returns the latest network metrics snapshot
func (c *Coordinator) NetworkStatus() models.NetworkMetrics {
	c.metricsMu.RLock()
	snapshot := c.metrics
	c.metricsMu.RUnlock()

	if snapshot.UpdatedAt.IsZero() {
		return c.MetricsTick(time.Now())
	}
	return snapshot
}

// jitterLocation offsets a hub location by up to ~0.5 degrees in each axis,
// for display and diagnostics only
func jitterLocation(p models.GeoPoint) models.GeoPoint {
	return models.GeoPoint{
		Lat: p.Lat + (rand.Float64()-0.5),
		Lng: p.Lng + (rand.Float64()-0.5),
	}
}
