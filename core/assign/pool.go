// Package assign owns the shared driver pool and the selection heuristic
// binding drivers to routes. The pool is the engine's primary mutable shared
// resource; every read-modify-write goes through one synchronized method.
package assign

import (
	"errors"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/josepaz/rumbo/core/model"
)

// ErrNoDriver is returned when no available driver matches the requested
// vehicle class. It is a retryable condition: the group stays queued for the
// next optimization cycle.
var ErrNoDriver = errors.New("no driver available")

// Selection weights. Availability is a fixed bonus for being free right now.
const (
	experienceWeight   = 0.4
	ratingWeight       = 0.4
	availabilityWeight = 0.2
	availabilityBonus  = 1.0
)

// Pool is the injected driver repository.
type Pool interface {
	// Assign atomically selects the best available driver of the class and
	// flips it to en_route. Selection and mutation happen under one lock so
	// concurrent optimization runs cannot double-assign.
	Assign(class model.VehicleClass, zone string, at time.Time) (model.DriverSnapshot, error)
	// Release flips a driver back to available. Called by external
	// collaborators when a route completes; the engine itself never frees
	// drivers.
	Release(id string) error
	// Summary reports pool availability for observability endpoints.
	Summary() Summary
}

// Summary aggregates the pool for status endpoints and the fleet command.
type Summary struct {
	Total         int                        `json:"total"`
	Available     int                        `json:"available"`
	ByClass       map[model.VehicleClass]int `json:"by_class"`
	AvgRating     float64                    `json:"avg_rating"`
	AvgExperience float64                    `json:"avg_experience"`
	Drivers       []model.Driver             `json:"drivers"`
}

// MemoryPool keeps drivers in memory in registration order. Ties in the
// selection score keep the first match, which makes assignment deterministic
// but arbitrary with respect to equally scored drivers.
type MemoryPool struct {
	mu      sync.Mutex
	drivers []*model.Driver
}

// NewMemoryPool copies the given drivers into a pool.
func NewMemoryPool(drivers []model.Driver) *MemoryPool {
	p := &MemoryPool{drivers: make([]*model.Driver, len(drivers))}
	for i := range drivers {
		d := drivers[i]
		if d.State == "" {
			d.State = model.DriverAvailable
		}
		p.drivers[i] = &d
	}
	return p
}

func driverScore(d *model.Driver) float64 {
	return experienceWeight*d.ExperienceYears + ratingWeight*d.Rating + availabilityWeight*availabilityBonus
}

// Assign implements Pool.
func (p *MemoryPool) Assign(class model.VehicleClass, zone string, at time.Time) (model.DriverSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var best *model.Driver
	bestScore := -1.0
	for _, d := range p.drivers {
		if d.Vehicle != class || d.State != model.DriverAvailable {
			continue
		}
		if s := driverScore(d); s > bestScore {
			best, bestScore = d, s
		}
	}
	if best == nil {
		return model.DriverSnapshot{}, ErrNoDriver
	}
	best.State = model.DriverEnRoute
	return best.Snapshot(zone, at), nil
}

// Release implements Pool.
func (p *MemoryPool) Release(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.drivers {
		if d.ID == id {
			d.State = model.DriverAvailable
			return nil
		}
	}
	return errors.New("unknown driver " + id)
}

// Summary implements Pool.
func (p *MemoryPool) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Summary{ByClass: map[model.VehicleClass]int{}}
	ratings := make([]float64, 0, len(p.drivers))
	experience := make([]float64, 0, len(p.drivers))
	for _, d := range p.drivers {
		s.Total++
		s.Drivers = append(s.Drivers, *d)
		ratings = append(ratings, d.Rating)
		experience = append(experience, d.ExperienceYears)
		if d.State == model.DriverAvailable {
			s.Available++
			s.ByClass[d.Vehicle]++
		}
	}
	if len(ratings) > 0 {
		s.AvgRating = stat.Mean(ratings, nil)
		s.AvgExperience = stat.Mean(experience, nil)
	}
	return s
}

// DefaultDrivers is the seed pool used when no driver roster is configured.
func DefaultDrivers() []model.Driver {
	return []model.Driver{
		{ID: "DRV001", Name: "Carlos Mendoza", Phone: "+502 5551-1234", Vehicle: model.VehicleMotorcycle, ExperienceYears: 3, Rating: 4.8, State: model.DriverAvailable},
		{ID: "DRV002", Name: "Ana Rodríguez", Phone: "+502 5551-5678", Vehicle: model.VehicleVan, ExperienceYears: 5, Rating: 4.9, State: model.DriverAvailable},
		{ID: "DRV003", Name: "Miguel Santos", Phone: "+502 5551-9012", Vehicle: model.VehicleTruck, ExperienceYears: 8, Rating: 4.7, State: model.DriverAvailable},
		{ID: "DRV004", Name: "Lucía Vásquez", Phone: "+502 5551-3456", Vehicle: model.VehicleMotorcycle, ExperienceYears: 2, Rating: 4.6, State: model.DriverAvailable},
		{ID: "DRV005", Name: "Roberto García", Phone: "+502 5551-7890", Vehicle: model.VehicleVan, ExperienceYears: 6, Rating: 4.8, State: model.DriverAvailable},
		{ID: "DRV006", Name: "Patricia López", Phone: "+502 5551-2345", Vehicle: model.VehicleTruck, ExperienceYears: 4, Rating: 4.9, State: model.DriverAvailable},
		{ID: "DRV007", Name: "Fernando Cruz", Phone: "+502 5551-6789", Vehicle: model.VehicleMotorcycle, ExperienceYears: 7, Rating: 4.7, State: model.DriverAvailable},
		{ID: "DRV008", Name: "Isabel Morales", Phone: "+502 5551-0123", Vehicle: model.VehicleVan, ExperienceYears: 3, Rating: 4.5, State: model.DriverAvailable},
	}
}
