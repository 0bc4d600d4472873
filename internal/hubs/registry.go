// Package hubs holds the city hub catalog: the static geographic hubs the
// relay network is organized around, plus their synthetic load levels.
// Live aggregates (active nodes, total staked, average latency) are derived
// from the node store at read time by the coordinator, not stored here.
package hubs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/relaymesh/relaycoord/internal/models"
)

// Registry is the city hub catalog. The catalog itself is immutable after
// construction; only the per-hub synthetic load is mutable.
type Registry struct {
	mu       sync.RWMutex
	hubs     map[string]models.CityHub
	loads    map[string]float64
	regional map[string]string // region -> designated regional hub ID
}

// NewRegistry builds a registry from a seed catalog. Every region gets a
// designated regional hub: the one flagged Regional, or the first hub seen
// for the region when none is flagged.
func NewRegistry(catalog []models.CityHub) (*Registry, error) {
	r := &Registry{
		hubs:     make(map[string]models.CityHub, len(catalog)),
		loads:    make(map[string]float64, len(catalog)),
		regional: make(map[string]string),
	}

	for _, hub := range catalog {
		if hub.ID == "" {
			return nil, fmt.Errorf("hub catalog entry without id")
		}
		if hub.Capacity <= 0 {
			return nil, fmt.Errorf("hub %s: capacity must be positive", hub.ID)
		}
		if _, exists := r.hubs[hub.ID]; exists {
			return nil, fmt.Errorf("duplicate hub id: %s", hub.ID)
		}

		r.hubs[hub.ID] = hub
		r.loads[hub.ID] = 1.0

		if hub.Regional {
			r.regional[hub.Region] = hub.ID
		} else if _, ok := r.regional[hub.Region]; !ok {
			r.regional[hub.Region] = hub.ID
		}
	}

	return r, nil
}

// Get returns the hub with the given ID
func (r *Registry) Get(id string) (models.CityHub, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hub, ok := r.hubs[id]
	return hub, ok
}

// List returns all hubs sorted by ID
func (r *Registry) List() []models.CityHub {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CityHub, 0, len(r.hubs))
	for _, hub := range r.hubs {
		out = append(out, hub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RegionalHub returns the designated regional routing hub for a region
func (r *Registry) RegionalHub(region string) (models.CityHub, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.regional[region]
	if !ok {
		return models.CityHub{}, false
	}
	hub, ok := r.hubs[id]
	return hub, ok
}

// Load returns the synthetic load level of a hub, 1.0 for unknown hubs
func (r *Registry) Load(id string) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if load, ok := r.loads[id]; ok {
		return load
	}
	return 1.0
}

// SetLoad sets the synthetic load of a hub, clamped to [0, 2]
func (r *Registry) SetLoad(id string, load float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.hubs[id]; !ok {
		return
	}

	if load < 0 {
		load = 0
	} else if load > 2 {
		load = 2
	}
	r.loads[id] = load
}

// DistanceKm returns the great-circle distance between two hubs
func (r *Registry) DistanceKm(a, b string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hubA, ok := r.hubs[a]
	if !ok {
		return 0, fmt.Errorf("unknown hub: %s", a)
	}
	hubB, ok := r.hubs[b]
	if !ok {
		return 0, fmt.Errorf("unknown hub: %s", b)
	}

	return HaversineKm(hubA.Location, hubB.Location), nil
}

// Size returns the number of hubs in the catalog
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hubs)
}
