package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/relaymesh/relaycoord/internal/models"
)

func makeNode(id, operatorID, cityID string, status models.NodeStatus) models.RelayNode {
	return models.RelayNode{
		ID:           id,
		OperatorID:   operatorID,
		CityID:       cityID,
		Status:       status,
		StakeAmount:  1000,
		RegisteredAt: time.Now(),
	}
}

func TestNodeStore_InsertAndGet(t *testing.T) {
	s := NewNodeStore()

	if !s.Insert(makeNode("n1", "op-1", "NYC", models.NodeStatusActive)) {
		t.Fatal("Insert should succeed for a new ID")
	}
	if s.Insert(makeNode("n1", "op-2", "LON", models.NodeStatusActive)) {
		t.Error("Insert should fail for a duplicate ID")
	}

	node, ok := s.Get("n1")
	if !ok {
		t.Fatal("Expected to find n1")
	}
	if node.OperatorID != "op-1" {
		t.Errorf("Duplicate insert must not overwrite, got operator %s", node.OperatorID)
	}

	if _, ok := s.Get("n2"); ok {
		t.Error("Expected miss for unknown ID")
	}
}

func TestNodeStore_GetReturnsCopy(t *testing.T) {
	s := NewNodeStore()
	node := makeNode("n1", "op-1", "NYC", models.NodeStatusActive)
	node.Hardware = map[string]string{"cpu": "4"}
	s.Insert(node)

	got, _ := s.Get("n1")
	got.Hardware["cpu"] = "8"
	got.StakeAmount = 0

	stored, _ := s.Get("n1")
	if stored.Hardware["cpu"] != "4" || stored.StakeAmount != 1000 {
		t.Error("Mutating a returned copy must not affect the store")
	}
}

func TestNodeStore_Update(t *testing.T) {
	s := NewNodeStore()
	s.Insert(makeNode("n1", "op-1", "NYC", models.NodeStatusActive))

	ok := s.Update("n1", func(n *models.RelayNode) {
		n.Status = models.NodeStatusOffline
		n.TotalRewards = 12.5
	})
	if !ok {
		t.Fatal("Update should succeed for an existing node")
	}

	node, _ := s.Get("n1")
	if node.Status != models.NodeStatusOffline || node.TotalRewards != 12.5 {
		t.Errorf("Update not applied: %+v", node)
	}

	if s.Update("missing", func(n *models.RelayNode) {}) {
		t.Error("Update should report false for an unknown node")
	}
}

func TestNodeStore_Remove(t *testing.T) {
	s := NewNodeStore()
	s.Insert(makeNode("n1", "op-1", "NYC", models.NodeStatusActive))

	s.Remove("n1")
	if _, ok := s.Get("n1"); ok {
		t.Error("Node should be gone after Remove")
	}
	if s.Size() != 0 {
		t.Errorf("Size = %d, want 0", s.Size())
	}

	// Removing again is a no-op
	s.Remove("n1")
}

func TestNodeStore_ListSortedByRegistration(t *testing.T) {
	s := NewNodeStore()
	base := time.Now()
	for i := 0; i < 5; i++ {
		node := makeNode(fmt.Sprintf("n%d", i), "op-1", "NYC", models.NodeStatusActive)
		node.RegisteredAt = base.Add(time.Duration(5-i) * time.Minute)
		s.Insert(node)
	}

	nodes := s.List()
	if len(nodes) != 5 {
		t.Fatalf("Expected 5 nodes, got %d", len(nodes))
	}
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1].RegisteredAt.After(nodes[i].RegisteredAt) {
			t.Fatal("List must be sorted by registration time")
		}
	}
}

func TestNodeStore_ListByOperatorAndCity(t *testing.T) {
	s := NewNodeStore()
	s.Insert(makeNode("n1", "op-1", "NYC", models.NodeStatusActive))
	s.Insert(makeNode("n2", "op-1", "LON", models.NodeStatusActive))
	s.Insert(makeNode("n3", "op-2", "NYC", models.NodeStatusOffline))

	if got := len(s.ListByOperator("op-1")); got != 2 {
		t.Errorf("ListByOperator(op-1) = %d nodes, want 2", got)
	}
	if got := len(s.ListByCity("NYC")); got != 2 {
		t.Errorf("ListByCity(NYC) = %d nodes, want 2", got)
	}
	if got := len(s.ListByCity("TOK")); got != 0 {
		t.Errorf("ListByCity(TOK) = %d nodes, want 0", got)
	}
}

func TestNodeStore_CountInCity(t *testing.T) {
	s := NewNodeStore()
	s.Insert(makeNode("n1", "op-1", "NYC", models.NodeStatusActive))
	s.Insert(makeNode("n2", "op-1", "NYC", models.NodeStatusRegistering))
	s.Insert(makeNode("n3", "op-1", "NYC", models.NodeStatusOffline))
	s.Insert(makeNode("n4", "op-1", "LON", models.NodeStatusActive))

	got := s.CountInCity("NYC", models.NodeStatusActive, models.NodeStatusRegistering)
	if got != 2 {
		t.Errorf("CountInCity = %d, want 2", got)
	}

	if got := s.CountInCity("NYC", models.NodeStatusSlashed); got != 0 {
		t.Errorf("CountInCity(SLASHED) = %d, want 0", got)
	}
}

func TestNodeStore_PickActiveInCity(t *testing.T) {
	s := NewNodeStore()
	s.Insert(makeNode("n1", "op-1", "NYC", models.NodeStatusOffline))

	if _, ok := s.PickActiveInCity("NYC"); ok {
		t.Error("No ACTIVE node should be picked from an offline-only hub")
	}

	s.Insert(makeNode("n2", "op-1", "NYC", models.NodeStatusActive))

	node, ok := s.PickActiveInCity("NYC")
	if !ok || node.ID != "n2" {
		t.Errorf("Expected n2, got %+v (ok=%v)", node, ok)
	}
}
