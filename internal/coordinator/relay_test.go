package coordinator

import (
	"math"
	"testing"

	"github.com/relaymesh/relaycoord/internal/models"
)

func TestRelay_SameHub(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "NYC", 1000)

	resp, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "NYC",
		Payload:      "hello",
	})
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	if resp.Hops != 1 {
		t.Fatalf("Expected 1 hop within the same hub, got %d", resp.Hops)
	}
	if resp.Path[0].CityID != "NYC" {
		t.Errorf("Expected path through NYC, got %s", resp.Path[0].CityID)
	}

	// 50 base + 25 per hop + 0km
	if math.Abs(resp.EstimatedLatencyMs-75) > 1e-9 {
		t.Errorf("Expected estimated latency 75ms, got %v", resp.EstimatedLatencyMs)
	}
	if resp.ActualLatencyMs < resp.EstimatedLatencyMs*0.9 || resp.ActualLatencyMs > resp.EstimatedLatencyMs*1.1 {
		t.Errorf("Actual latency %v outside jitter band around %v", resp.ActualLatencyMs, resp.EstimatedLatencyMs)
	}
	if resp.RelayID == "" {
		t.Error("Expected a relay ID")
	}
}

func TestRelay_DirectRoute(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "NYC", 1000)
	registerActive(t, env, "op-1", "TOR", 1000)

	// NYC -> TOR is ~550km, well under the 5000km cutoff
	resp, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "TOR",
	})
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	if resp.Hops != 2 {
		t.Fatalf("Expected 2 hops for a direct route, got %d", resp.Hops)
	}
	if resp.Path[0].CityID != "NYC" || resp.Path[1].CityID != "TOR" {
		t.Errorf("Unexpected path: %+v", resp.Path)
	}

	dist := resp.Path.TotalDistanceKm()
	if dist < 500 || dist > 600 {
		t.Errorf("NYC-TOR distance %v km outside expected range", dist)
	}

	// 50 + 25*2 + dist/1000
	want := 100 + dist/1000
	if math.Abs(resp.EstimatedLatencyMs-want) > 1e-9 {
		t.Errorf("Estimated latency %v, want %v", resp.EstimatedLatencyMs, want)
	}
}

func TestRelay_ViaRegionalHub(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "NYC", 1000)

	// NYC -> LON is ~5570km, beyond the cutoff; the eu regional hub is FRA
	resp, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "LON",
	})
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	if resp.Hops != 3 {
		t.Fatalf("Expected 3 hops via the regional hub, got %d", resp.Hops)
	}
	if resp.Path[0].CityID != "NYC" || resp.Path[1].CityID != "FRA" || resp.Path[2].CityID != "LON" {
		t.Errorf("Expected NYC->FRA->LON, got %+v", resp.Path)
	}
}

func TestRelay_RegionalHubFallsBackToDirect(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "SIN", 1000)

	// SIN -> TOK is ~5330km, but the apac regional hub IS Singapore,
	// so the route degenerates to direct
	resp, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "TOK",
	})
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	if resp.Hops != 2 {
		t.Fatalf("Expected direct fallback with 2 hops, got %d", resp.Hops)
	}
	if resp.Path[0].CityID != "SIN" || resp.Path[1].CityID != "TOK" {
		t.Errorf("Expected SIN->TOK, got %+v", resp.Path)
	}
}

func TestRelay_UpdatesHopCounters(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "NYC", 1000)

	resp, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "NYC",
		Payload:      "some relay payload some relay payload some relay payload",
	})
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}

	// The source node is the only active node in NYC, so it serves the hop
	if resp.Path[0].NodeID != nodeID {
		t.Fatalf("Expected hop served by %s, got %s", nodeID, resp.Path[0].NodeID)
	}

	node, _ := env.coord.NodeDetails(nodeID)
	if node.Performance.TransactionsProcessed != 1 {
		t.Errorf("Expected 1 transaction processed, got %d", node.Performance.TransactionsProcessed)
	}
	if node.Performance.DataRelayed <= 0 {
		t.Errorf("Expected positive data relayed, got %d", node.Performance.DataRelayed)
	}
}

func TestRelay_EmptyHubHopHasNoNode(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "NYC", 1000)

	// No node registered in TOR; the hop is traversed without one
	resp, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "TOR",
	})
	if err != nil {
		t.Fatalf("Relay failed: %v", err)
	}
	if resp.Path[1].NodeID != "" {
		t.Errorf("Expected no node for the empty TOR hop, got %s", resp.Path[1].NodeID)
	}
}

func TestRelay_SourceNotActive(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "NYC", 1000)

	env.nodes.Update(nodeID, func(n *models.RelayNode) {
		n.Status = models.NodeStatusOffline
	})

	_, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "TOR",
	})
	coordErr, ok := AsError(err)
	if !ok || coordErr.Code != CodeSourceNodeUnavailable {
		t.Fatalf("Expected SOURCE_NODE_UNAVAILABLE, got %v", err)
	}

	_, err = env.coord.Relay(models.RelayRequest{
		SourceNodeID: "nope",
		TargetCityID: "TOR",
	})
	coordErr, ok = AsError(err)
	if !ok || coordErr.Code != CodeSourceNodeUnavailable {
		t.Fatalf("Expected SOURCE_NODE_UNAVAILABLE for unknown source, got %v", err)
	}
}

func TestRelay_UnknownTarget(t *testing.T) {
	env := setupCoordinator(t, nil)
	nodeID := registerActive(t, env, "op-1", "NYC", 1000)

	_, err := env.coord.Relay(models.RelayRequest{
		SourceNodeID: nodeID,
		TargetCityID: "ATL",
	})
	coordErr, ok := AsError(err)
	if !ok || coordErr.Code != CodeUnknownCity {
		t.Fatalf("Expected UNKNOWN_CITY, got %v", err)
	}
}
