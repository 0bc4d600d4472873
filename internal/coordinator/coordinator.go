package coordinator

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/relaymesh/relaycoord/internal/config"
	"github.com/relaymesh/relaycoord/internal/events"
	"github.com/relaymesh/relaycoord/internal/hubs"
	"github.com/relaymesh/relaycoord/internal/ledger"
	"github.com/relaymesh/relaycoord/internal/logging"
	"github.com/relaymesh/relaycoord/internal/models"
	"github.com/relaymesh/relaycoord/internal/store"
	"github.com/relaymesh/relaycoord/internal/utils"
)

// Slashing trigger floors (network policy, not operator-tunable)
const (
	slashUptimeFloor      = 0.8
	slashSuccessRateFloor = 0.9
)

// Coordinator owns the relay node store and hub registry and implements
// every operation the HTTP layer exposes, plus the four periodic tasks.
type Coordinator struct {
	logger    *logging.Logger
	cfg       config.CoordinatorConfig
	nodes     *store.NodeStore
	hubs      *hubs.Registry
	ledger    ledger.Ledger
	publisher events.Publisher
	sampler   PerformanceSampler

	// regMu serializes the capacity check-then-insert of registration so
	// two concurrent registrations cannot both pass the check on a
	// near-full hub. The ledger round-trip happens outside this lock; the
	// REGISTERING placeholder holds the slot meanwhile.
	regMu sync.Mutex

	metricsMu    sync.RWMutex
	metrics      models.NetworkMetrics
	totalRewards float64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a coordinator over the given collaborators
func New(
	logger *logging.Logger,
	cfg config.CoordinatorConfig,
	nodes *store.NodeStore,
	hubRegistry *hubs.Registry,
	ledgerClient ledger.Ledger,
	publisher events.Publisher,
	sampler PerformanceSampler,
) *Coordinator {
	if sampler == nil {
		sampler = NewSyntheticSampler(time.Now().UnixNano())
	}

	return &Coordinator{
		logger:    logger,
		cfg:       cfg,
		nodes:     nodes,
		hubs:      hubRegistry,
		ledger:    ledgerClient,
		publisher: publisher,
		sampler:   sampler,
		stopCh:    make(chan struct{}),
	}
}

// Start launches the periodic background tasks
func (c *Coordinator) Start(ctx context.Context) {
	c.logger.Info("Starting coordinator background tasks",
		"heartbeat_interval", c.cfg.HeartbeatInterval,
		"reward_interval", c.cfg.RewardInterval,
		"performance_interval", c.cfg.PerformanceInterval,
		"metrics_interval", c.cfg.MetricsInterval)

	c.runPeriodic(ctx, "heartbeat-monitor", c.cfg.HeartbeatInterval, func() {
		c.HeartbeatTick(time.Now())
	})
	c.runPeriodic(ctx, "reward-distributor", c.cfg.RewardInterval, func() {
		c.RewardTick(ctx)
	})
	c.runPeriodic(ctx, "performance-monitor", c.cfg.PerformanceInterval, func() {
		c.PerformanceTick(ctx)
	})
	c.runPeriodic(ctx, "metrics-aggregator", c.cfg.MetricsInterval, func() {
		c.MetricsTick(time.Now())
	})

	// Seed an initial metrics snapshot so status queries never see zeroes
	c.MetricsTick(time.Now())
}

// Stop stops the background tasks and waits for them to exit
func (c *Coordinator) Stop() {
	close(c.stopCh)
	c.wg.Wait()
	c.logger.Info("Coordinator background tasks stopped")
}

// runPeriodic runs tick on the given interval until Stop or ctx cancellation
func (c *Coordinator) runPeriodic(ctx context.Context, name string, interval time.Duration, tick func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.logger.Debug("Periodic task stopped (context done)", "task", name)
				return
			case <-c.stopCh:
				c.logger.Debug("Periodic task stopped", "task", name)
				return
			case <-ticker.C:
				tick()
			}
		}
	}()
}

// hourlyReward computes the pre-fee hourly reward for a node at the given
// hub load
func (c *Coordinator) hourlyReward(node models.RelayNode, hubLoad float64) float64 {
	performanceMultiplier := (node.Performance.SuccessRate + node.Uptime) / 2
	stakeMultiplier := math.Min(node.StakeAmount/c.cfg.MinStakeAmount, 3)
	loadMultiplier := clamp(hubLoad, 0.5, 2)

	return c.cfg.BaseRewardRate * performanceMultiplier * stakeMultiplier * loadMultiplier
}

// hourlyPayout is the hourly reward net of the network fee
func (c *Coordinator) hourlyPayout(node models.RelayNode, hubLoad float64) float64 {
	return c.hourlyReward(node, hubLoad) * (1 - c.cfg.NetworkFee)
}

// emit publishes a lifecycle event, best-effort
func (c *Coordinator) emit(subject string, ev events.NodeEvent) {
	if c.publisher == nil {
		return
	}

	ev.Time = time.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.EventPublishTimeout)
	defer cancel()

	if err := c.publisher.Publish(ctx, subject, data); err != nil {
		c.logger.Warn("Failed to publish lifecycle event",
			"subject", subject, "node_id", ev.NodeID, "error", err)
	}
}

// hubView assembles a hub's live aggregates from the node store.
// ActiveNodes is derived on read so it cannot drift through OFFLINE or
// SLASHED transitions.
func (c *Coordinator) hubView(hub models.CityHub) models.CityHubView {
	view := models.CityHubView{
		CityHub: hub,
		Load:    c.hubs.Load(hub.ID),
	}

	var latencySum float64
	for _, node := range c.nodes.ListByCity(hub.ID) {
		if node.Status == models.NodeStatusRegistering {
			continue
		}
		view.TotalStaked += node.StakeAmount
		if node.Status == models.NodeStatusActive {
			view.ActiveNodes++
			latencySum += node.Performance.AvgLatency
		}
	}
	if view.ActiveNodes > 0 {
		view.AvgLatency = latencySum / float64(view.ActiveNodes)
	}

	return view
}

// SimulateLoad is a test/demo hook: it sets each hub's synthetic load
// around the given level and perturbs node latency samples accordingly.
// It is not part of the economic model proper.
func (c *Coordinator) SimulateLoad(level float64) map[string]float64 {
	applied := make(map[string]float64)

	for _, hub := range c.hubs.List() {
		load := clamp(level*(0.8+0.4*rand.Float64()), 0, 2)
		c.hubs.SetLoad(hub.ID, load)
		applied[hub.ID] = load
	}

	for _, node := range c.nodes.List() {
		load := c.hubs.Load(node.CityID)
		c.nodes.Update(node.ID, func(n *models.RelayNode) {
			n.Performance.AvgLatency = n.Performance.AvgLatency * (0.8 + 0.4*rand.Float64()) * (0.5 + load/2)
		})
	}

	c.logger.Info("Simulated network load", "level", level, "hubs", len(applied))
	return applied
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
