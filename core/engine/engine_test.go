package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josepaz/rumbo/core/assign"
	"github.com/josepaz/rumbo/core/model"
	"github.com/josepaz/rumbo/core/notify"
	"github.com/josepaz/rumbo/core/routing"
	"github.com/josepaz/rumbo/core/zone"
	infralogger "github.com/josepaz/rumbo/infra/logger"
	"github.com/josepaz/rumbo/infra/store"
)

// Monday mid-morning, inside every operating window and outside traffic peaks.
var monday10 = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

type recordingSink struct {
	events []notify.Event
}

func (r *recordingSink) Publish(_ context.Context, e notify.Event) error {
	r.events = append(r.events, e)
	return nil
}

func newTestEngine(t *testing.T, drivers []model.Driver, at time.Time) (*Engine, *store.MemoryStore, *recordingSink) {
	t.Helper()
	st := store.NewMemoryStore()
	sink := &recordingSink{}
	log := infralogger.NopLogger{}

	e, err := New(Config{
		Store:    st,
		Pool:     assign.NewMemoryPool(drivers),
		Logger:   log,
		Notifier: notify.New(log, sink),
	})
	require.NoError(t, err)

	clock := func() time.Time { return at }
	e.now = clock
	e.estimator.Now = clock
	if gb, ok := e.builder.(*routing.GreedyBuilder); ok {
		gb.Now = clock
	}
	return e, st, sink
}

func standardRequest(city string) CreateShipmentRequest {
	return CreateShipmentRequest{
		SenderName:     "Despachos Quetzal",
		SenderCity:     "Ciudad de Guatemala",
		RecipientName:  "María Pérez",
		RecipientEmail: "maria@example.com",
		RecipientCity:  city,
		Service:        "standard",
		WeightDeclared: "4",
		Dimensions:     "20x15x10",
		DeclaredValueQ: 150,
	}
}

func TestNewRejectsNilCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestCreateShipment(t *testing.T) {
	e, st, sink := newTestEngine(t, assign.DefaultDrivers(), monday10)

	s, err := e.CreateShipment(context.Background(), standardRequest("Mixco"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.ID, "PKG"), "tracking id %q", s.ID)
	assert.Equal(t, model.StatePending, s.State)
	assert.Equal(t, model.TierStandard, s.Tier)
	assert.Equal(t, model.VehicleTruck, s.Vehicle)
	assert.Equal(t, zone.GuatemalaMetro, s.Zone)
	assert.Equal(t, 25.0, s.QuoteQ)

	require.NotNil(t, s.Preliminary)
	assert.Equal(t, model.EstimatePreliminary, s.Preliminary.Kind)

	stored, err := st.Shipment(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, stored.ID)
	assert.Equal(t, 1, e.QueueDepth())

	require.Len(t, sink.events, 1)
	assert.Equal(t, notify.EventShipmentEstimate, sink.events[0].Type)
}

func TestCreateShipmentChargesExcessWeight(t *testing.T) {
	e, _, _ := newTestEngine(t, assign.DefaultDrivers(), monday10)

	req := standardRequest("Mixco")
	req.Service = "express"
	req.WeightDeclared = "7"
	s, err := e.CreateShipment(context.Background(), req)
	require.NoError(t, err)

	// 45 base plus 2 kg over the included 5 at 8 Q/kg.
	assert.Equal(t, 61.0, s.QuoteQ)
}

func TestOptimizeBuildsRouteForFullBatch(t *testing.T) {
	e, st, sink := newTestEngine(t, assign.DefaultDrivers(), monday10)
	ctx := context.Background()

	cities := []string{"Mixco", "Villa Nueva", "Ciudad de Guatemala", "Mixco", "Villa Nueva"}
	for _, c := range cities {
		_, err := e.CreateShipment(ctx, standardRequest(c))
		require.NoError(t, err)
	}
	sink.events = nil

	sum, err := e.Optimize(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.RoutesCreated)
	assert.Equal(t, 5, sum.ShipmentsRouted)
	assert.Equal(t, 0, sum.GroupsSkipped)
	assert.Equal(t, 0, sum.Pending)
	assert.Equal(t, 0, e.QueueDepth())

	routes, err := st.ActiveRoutes(ctx)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	r := routes[0]
	assert.Equal(t, model.RouteReadyToStart, r.State)
	assert.Equal(t, model.VehicleTruck, r.Vehicle)
	assert.NotEmpty(t, r.Driver.ID)
	assert.Len(t, r.Stops, 5)

	for _, stop := range r.Stops {
		s, err := st.Shipment(ctx, stop.ShipmentID)
		require.NoError(t, err)
		assert.Equal(t, model.StateOptimizedRefined, s.State)
		assert.Equal(t, r.ID, s.RouteID)
		assert.Equal(t, r.Driver.ID, s.DriverID)
		require.NotNil(t, s.Current)
		assert.Equal(t, model.EstimateOptimized, s.Current.Kind)
	}

	// One driver notification plus one estimate notification per stop.
	var driverEvents, estimateEvents int
	for _, ev := range sink.events {
		switch ev.Type {
		case notify.EventDriverRoute:
			driverEvents++
		case notify.EventShipmentEstimate:
			estimateEvents++
		}
	}
	assert.Equal(t, 1, driverEvents)
	assert.Equal(t, 5, estimateEvents)
}

func TestOptimizeUrgentBypassesBatchThreshold(t *testing.T) {
	e, st, _ := newTestEngine(t, assign.DefaultDrivers(), monday10)
	ctx := context.Background()

	urgent := standardRequest("Mixco")
	urgent.Service = "urgent"
	urgent.WeightDeclared = "2"
	urgent.Dimensions = "10x10x10"
	created, err := e.CreateShipment(ctx, urgent)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := e.CreateShipment(ctx, standardRequest("Mixco"))
		require.NoError(t, err)
	}

	sum, err := e.Optimize(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.RoutesCreated)
	assert.Equal(t, 1, sum.ShipmentsRouted)
	assert.Equal(t, 2, sum.Pending, "standard shipments below threshold stay queued")

	s, err := st.Shipment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateOptimizedRefined, s.State)
}

func TestOptimizeSkipsGroupWithoutDriver(t *testing.T) {
	// Motorcycle-only fleet cannot serve standard (truck) shipments.
	moto := []model.Driver{
		{ID: "DRV001", Name: "Carlos Mendoza", Vehicle: model.VehicleMotorcycle, ExperienceYears: 3, Rating: 4.8, State: model.DriverAvailable},
	}
	e, st, _ := newTestEngine(t, moto, monday10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := e.CreateShipment(ctx, standardRequest("Mixco"))
		require.NoError(t, err)
	}

	sum, err := e.Optimize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.RoutesCreated)
	assert.Equal(t, 1, sum.GroupsSkipped)
	assert.Equal(t, 5, sum.Pending)

	pending, err := st.ShipmentsByState(ctx, model.StatePending)
	require.NoError(t, err)
	assert.Len(t, pending, 5)
}

func TestOptimizeSchedulesOutsideWindow(t *testing.T) {
	// Monday 22:00 is past the standard window (08:00 to 18:00), so the route
	// must be programmed for Tuesday 08:00.
	night := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	e, st, _ := newTestEngine(t, assign.DefaultDrivers(), night)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := e.CreateShipment(ctx, standardRequest("Mixco"))
		require.NoError(t, err)
	}

	sum, err := e.Optimize(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sum.RoutesCreated)

	routes, err := st.ActiveRoutes(ctx)
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, model.RouteProgrammed, routes[0].State)
	assert.Equal(t, time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC), routes[0].StartAt)
}

func TestOptimizeRejectsConcurrentRun(t *testing.T) {
	e, _, _ := newTestEngine(t, assign.DefaultDrivers(), monday10)

	e.runMu.Lock()
	_, err := e.Optimize(context.Background())
	e.runMu.Unlock()
	assert.ErrorIs(t, err, ErrRunInProgress)
}

func TestStatsAggregatesRoutesAndFleet(t *testing.T) {
	e, _, _ := newTestEngine(t, assign.DefaultDrivers(), monday10)
	ctx := context.Background()

	// San Salvador destinations give the route real distance from the hub.
	for i := 0; i < 5; i++ {
		_, err := e.CreateShipment(ctx, standardRequest("San Salvador"))
		require.NoError(t, err)
	}
	_, err := e.Optimize(ctx)
	require.NoError(t, err)

	stats, err := e.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.RoutesActive)
	assert.Equal(t, 5, stats.ShipmentsRouted)
	assert.Equal(t, 0, stats.ShipmentsPending)
	assert.Equal(t, 1, stats.VehiclesActive, "assigned truck driver counts as active")
	assert.Equal(t, len(assign.DefaultDrivers())-1, stats.DriversAvailable)
	assert.GreaterOrEqual(t, stats.AvgTimeSavedPct, 15.0)
	assert.LessOrEqual(t, stats.AvgTimeSavedPct, 45.0)
	assert.Positive(t, stats.AvgEfficiencyPct)
	assert.Positive(t, stats.TotalDistanceKm)
}

func TestOptimizePicksUpStoredPending(t *testing.T) {
	// Shipments persisted by a previous process must be re-queued on the next
	// run even though the in-memory queue starts empty.
	e, st, _ := newTestEngine(t, assign.DefaultDrivers(), monday10)
	ctx := context.Background()

	seed, _, _ := newTestEngine(t, assign.DefaultDrivers(), monday10)
	for i := 0; i < 5; i++ {
		s, err := seed.CreateShipment(ctx, standardRequest("Mixco"))
		require.NoError(t, err)
		require.NoError(t, st.SaveShipment(ctx, s))
	}
	assert.Equal(t, 0, e.QueueDepth())

	sum, err := e.Optimize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.ShipmentsRouted)
}
