// Package store holds the authoritative in-memory table of registered
// relay nodes. All reads hand out deep copies; all mutations go through
// Update so the lock is never exposed to callers.
package store

import (
	"sort"
	"sync"

	"github.com/relaymesh/relaycoord/internal/models"
)

// NodeStore is a mutex-guarded map of relay nodes keyed by node ID
type NodeStore struct {
	mu    sync.RWMutex
	nodes map[string]*models.RelayNode
}

// NewNodeStore creates an empty node store
func NewNodeStore() *NodeStore {
	return &NodeStore{
		nodes: make(map[string]*models.RelayNode),
	}
}

// Insert adds a node. Returns false if the ID already exists.
func (s *NodeStore) Insert(node models.RelayNode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[node.ID]; exists {
		return false
	}

	n := node.Clone()
	s.nodes[node.ID] = &n
	return true
}

// Get returns a copy of the node with the given ID
func (s *NodeStore) Get(id string) (models.RelayNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return models.RelayNode{}, false
	}
	return node.Clone(), true
}

// Remove deletes the node with the given ID
func (s *NodeStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)
}

// Update applies fn to the stored node under the write lock.
// Returns false if the node does not exist.
func (s *NodeStore) Update(id string, fn func(*models.RelayNode)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return false
	}
	fn(node)
	return true
}

// List returns copies of all nodes sorted by registration time
func (s *NodeStore) List() []models.RelayNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RelayNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		out = append(out, node.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out
}

// ListByOperator returns copies of all nodes owned by an operator
func (s *NodeStore) ListByOperator(operatorID string) []models.RelayNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RelayNode
	for _, node := range s.nodes {
		if node.OperatorID == operatorID {
			out = append(out, node.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out
}

// ListByCity returns copies of all nodes registered to a hub
func (s *NodeStore) ListByCity(cityID string) []models.RelayNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RelayNode
	for _, node := range s.nodes {
		if node.CityID == cityID {
			out = append(out, node.Clone())
		}
	}
	return out
}

// CountInCity counts nodes in a hub with any of the given statuses
func (s *NodeStore) CountInCity(cityID string, statuses ...models.NodeStatus) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, node := range s.nodes {
		if node.CityID != cityID {
			continue
		}
		for _, status := range statuses {
			if node.Status == status {
				count++
				break
			}
		}
	}
	return count
}

// PickActiveInCity returns an arbitrary ACTIVE node in a hub.
// Map iteration order supplies the best-effort load spreading; the chosen
// node is deliberately not reserved.
func (s *NodeStore) PickActiveInCity(cityID string) (models.RelayNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, node := range s.nodes {
		if node.CityID == cityID && node.Status == models.NodeStatusActive {
			return node.Clone(), true
		}
	}
	return models.RelayNode{}, false
}

// Size returns the total number of nodes in the store
func (s *NodeStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
