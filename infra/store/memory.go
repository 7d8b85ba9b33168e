package store

import (
	"context"
	"sort"
	"sync"

	"github.com/josepaz/rumbo/core/model"
)

// MemoryStore keeps shipments and routes in memory.
type MemoryStore struct {
	mu        sync.RWMutex
	shipments map[string]model.Shipment
	routes    map[string]model.Route
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shipments: make(map[string]model.Shipment),
		routes:    make(map[string]model.Route),
	}
}

// SaveShipment implements Store.
func (m *MemoryStore) SaveShipment(_ context.Context, s model.Shipment) error {
	m.mu.Lock()
	m.shipments[s.ID] = s
	m.mu.Unlock()
	return nil
}

// Shipment implements Store.
func (m *MemoryStore) Shipment(_ context.Context, id string) (model.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shipments[id]
	if !ok {
		return model.Shipment{}, ErrNotFound
	}
	return s, nil
}

// ShipmentsByState implements Store.
func (m *MemoryStore) ShipmentsByState(_ context.Context, states ...model.ShipmentState) ([]model.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Shipment
	for _, s := range m.shipments {
		if len(states) == 0 || containsState(states, s.State) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// SaveRoute implements Store.
func (m *MemoryStore) SaveRoute(_ context.Context, r model.Route) error {
	m.mu.Lock()
	m.routes[r.ID] = r
	m.mu.Unlock()
	return nil
}

// Route implements Store.
func (m *MemoryStore) Route(_ context.Context, id string) (model.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.routes[id]
	if !ok {
		return model.Route{}, ErrNotFound
	}
	return r, nil
}

// ActiveRoutes implements Store.
func (m *MemoryStore) ActiveRoutes(_ context.Context) ([]model.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Route
	for _, r := range m.routes {
		if r.State == model.RouteCompleted {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Routes implements Store.
func (m *MemoryStore) Routes(_ context.Context) ([]model.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Route, 0, len(m.routes))
	for _, r := range m.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ApplyRun implements Store. The context is checked once before mutating;
// after that the write-back completes under the lock.
func (m *MemoryStore) ApplyRun(ctx context.Context, routes []model.Route, shipments []model.Shipment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range routes {
		m.routes[r.ID] = r
	}
	for _, s := range shipments {
		m.shipments[s.ID] = s
	}
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

func containsState(states []model.ShipmentState, s model.ShipmentState) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}
