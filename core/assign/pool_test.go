package assign

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josepaz/rumbo/core/model"
)

func testDrivers() []model.Driver {
	return []model.Driver{
		{ID: "D1", Name: "Low", Vehicle: model.VehicleVan, ExperienceYears: 2, Rating: 4.0, State: model.DriverAvailable},
		{ID: "D2", Name: "High", Vehicle: model.VehicleVan, ExperienceYears: 6, Rating: 4.9, State: model.DriverAvailable},
		{ID: "D3", Name: "Bike", Vehicle: model.VehicleMotorcycle, ExperienceYears: 9, Rating: 5.0, State: model.DriverAvailable},
	}
}

func TestAssignPicksHighestScore(t *testing.T) {
	pool := NewMemoryPool(testDrivers())
	snap, err := pool.Assign(model.VehicleVan, "metropolitana", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "D2", snap.ID)
	assert.Equal(t, "metropolitana", snap.Zone)

	// D2 is now en_route, next best van driver is D1.
	snap, err = pool.Assign(model.VehicleVan, "metropolitana", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "D1", snap.ID)

	_, err = pool.Assign(model.VehicleVan, "metropolitana", time.Now())
	assert.ErrorIs(t, err, ErrNoDriver)
}

func TestAssignIgnoresOtherClasses(t *testing.T) {
	pool := NewMemoryPool(testDrivers())
	_, err := pool.Assign(model.VehicleTruck, "sur", time.Now())
	assert.ErrorIs(t, err, ErrNoDriver)
}

func TestAssignTieKeepsFirst(t *testing.T) {
	pool := NewMemoryPool([]model.Driver{
		{ID: "A", Vehicle: model.VehicleVan, ExperienceYears: 4, Rating: 4.5, State: model.DriverAvailable},
		{ID: "B", Vehicle: model.VehicleVan, ExperienceYears: 4, Rating: 4.5, State: model.DriverAvailable},
	})
	snap, err := pool.Assign(model.VehicleVan, "norte", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "A", snap.ID)
}

func TestReleaseMakesDriverAvailableAgain(t *testing.T) {
	pool := NewMemoryPool(testDrivers())
	snap, err := pool.Assign(model.VehicleMotorcycle, "occidente", time.Now())
	require.NoError(t, err)

	_, err = pool.Assign(model.VehicleMotorcycle, "occidente", time.Now())
	require.ErrorIs(t, err, ErrNoDriver)

	require.NoError(t, pool.Release(snap.ID))
	again, err := pool.Assign(model.VehicleMotorcycle, "occidente", time.Now())
	require.NoError(t, err)
	assert.Equal(t, snap.ID, again.ID)
}

func TestConcurrentAssignNoDoubleBooking(t *testing.T) {
	drivers := make([]model.Driver, 20)
	for i := range drivers {
		drivers[i] = model.Driver{
			ID:              string(rune('A' + i)),
			Vehicle:         model.VehicleVan,
			ExperienceYears: float64(i % 7),
			Rating:          4.0,
			State:           model.DriverAvailable,
		}
	}
	pool := NewMemoryPool(drivers)

	var wg sync.WaitGroup
	results := make(chan string, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := pool.Assign(model.VehicleVan, "metropolitana", time.Now())
			if err == nil {
				results <- snap.ID
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for id := range results {
		if seen[id] {
			t.Fatalf("driver %s assigned twice", id)
		}
		seen[id] = true
	}
	assert.Len(t, seen, 20)
}

func TestSummary(t *testing.T) {
	pool := NewMemoryPool(testDrivers())
	_, err := pool.Assign(model.VehicleVan, "metropolitana", time.Now())
	require.NoError(t, err)

	s := pool.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Available)
	assert.Equal(t, 1, s.ByClass[model.VehicleVan])
	assert.Equal(t, 1, s.ByClass[model.VehicleMotorcycle])
	assert.InDelta(t, (4.0+4.9+5.0)/3, s.AvgRating, 1e-9)
}

func TestDefaultDriversRoster(t *testing.T) {
	drivers := DefaultDrivers()
	require.Len(t, drivers, 8)
	for _, d := range drivers {
		assert.Equal(t, model.DriverAvailable, d.State)
		assert.NotEmpty(t, d.Name)
		assert.Greater(t, d.Rating, 4.0)
	}
}
