package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josepaz/rumbo/core/conditions"
	"github.com/josepaz/rumbo/core/geo"
	"github.com/josepaz/rumbo/core/model"
)

var testDriver = model.DriverSnapshot{
	ID:              "DRV001",
	Name:            "Carlos Mendoza",
	Vehicle:         model.VehicleVan,
	ExperienceYears: 5,
	Rating:          4.8,
}

func routeShipment(id string, tier model.ServiceTier, dest model.Point, city string, weight float64) model.Shipment {
	return model.Shipment{
		ID:        id,
		Tier:      tier,
		Vehicle:   model.VehicleVan,
		Zone:      "metropolitana",
		Dest:      dest,
		Recipient: model.Address{City: city},
		Package:   model.Package{WeightKg: weight, VolumeM3: 0.01, DeclaredQ: 200},
		State:     model.StateAssigned,
		CreatedAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	}
}

func frozenBuilder(at time.Time) *GreedyBuilder {
	b := NewGreedyBuilder(conditions.Default())
	b.Now = func() time.Time { return at }
	return b
}

func TestBuildOrdersUrgentAndNearFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := frozenBuilder(now)

	hub := geo.HubGuatemala
	near := model.Point{Lat: hub.Lat + 0.05, Lng: hub.Lng}       // a few km out
	far := model.Point{Lat: hub.Lat + 0.60, Lng: hub.Lng + 0.30} // tens of km out

	shipments := []model.Shipment{
		routeShipment("FAR-STD", model.TierStandard, far, "Chimaltenango", 8),
		routeShipment("NEAR-URG", model.TierUrgent, near, "Guatemala", 3),
		routeShipment("NEAR-STD", model.TierStandard, near, "Guatemala", 8),
	}

	r, err := b.Build(shipments, testDriver, "metropolitana", hub, now)
	require.NoError(t, err)
	require.Len(t, r.Stops, 3)

	assert.Equal(t, "NEAR-URG", r.Stops[0].ShipmentID)
	assert.Equal(t, 1, r.Stops[0].Position)
	assert.Equal(t, "FAR-STD", r.Stops[2].ShipmentID)
}

func TestBuildEmptyGroup(t *testing.T) {
	b := frozenBuilder(time.Now())
	_, err := b.Build(nil, testDriver, "sur", geo.HubGuatemala, time.Now())
	assert.ErrorIs(t, err, ErrEmptyGroup)
}

func TestBuildArrivalProjectionUsesArrivalHourTraffic(t *testing.T) {
	// Departing 06:30 on a leg that lands inside the 07:00-09:00 morning
	// peak: the adjusted time must carry the peak factor, not the calm
	// pre-dawn one.
	start := time.Date(2025, 3, 10, 6, 30, 0, 0, time.UTC)
	b := frozenBuilder(start)

	hub := geo.HubGuatemala
	dest := model.Point{Lat: hub.Lat + 0.35, Lng: hub.Lng} // roughly 39 km, about an hour by van

	r, err := b.Build(
		[]model.Shipment{routeShipment("PEAK", model.TierStandard, dest, "Guatemala", 8)},
		testDriver, "metropolitana", hub, start,
	)
	require.NoError(t, err)
	require.Len(t, r.Stops, 1)

	stop := r.Stops[0]
	assert.Equal(t, conditions.Default().TrafficMorningPeak, stop.TrafficFactor)
	assert.Greater(t, stop.AdjustedHours, stop.TravelHours)
	assert.Equal(t, 7, stop.ArrivalAt.Hour())
}

func TestBuildStats(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	b := frozenBuilder(now)

	hub := geo.HubGuatemala
	shipments := []model.Shipment{
		routeShipment("S1", model.TierStandard, model.Point{Lat: hub.Lat + 0.05, Lng: hub.Lng}, "Guatemala", 4),
		routeShipment("S2", model.TierStandard, model.Point{Lat: hub.Lat + 0.10, Lng: hub.Lng}, "Guatemala", 4),
		routeShipment("S3", model.TierStandard, model.Point{Lat: hub.Lat + 0.15, Lng: hub.Lng}, "Guatemala", 4),
	}

	r, err := b.Build(shipments, testDriver, "metropolitana", hub, now)
	require.NoError(t, err)

	st := r.Stats
	assert.Equal(t, 3, st.StopCount)
	assert.Greater(t, st.TotalDistanceKm, 0.0)
	assert.Greater(t, st.TotalHours, 0.0)
	assert.GreaterOrEqual(t, st.ImprovementPct, 15.0)
	assert.LessOrEqual(t, st.EfficiencyPct, 95.0)
	assert.GreaterOrEqual(t, st.EfficiencyPct, 75.0)
	assert.InDelta(t, st.TotalDistanceKm/3, st.AvgDistanceKm, 0.02)
	assert.True(t, st.EstimatedEndAt.After(now))
	assert.Equal(t, model.RouteProgrammed, r.State)
	assert.Contains(t, r.ID, "RT-")
}

func TestEffectiveSpeed(t *testing.T) {
	// Three years of experience is neutral, free-flowing traffic divides by 1.
	assert.InDelta(t, 40.0, EffectiveSpeedKmh(model.VehicleVan, 3, 1.0), 1e-9)
	// Five years adds 10%.
	assert.InDelta(t, 44.0, EffectiveSpeedKmh(model.VehicleVan, 5, 1.0), 1e-9)
	// A peak-hour departure divides the base speed by the traffic factor.
	assert.InDelta(t, 40.0/1.5, EffectiveSpeedKmh(model.VehicleVan, 3, 1.5), 1e-9)
	// A rookie is slower than base.
	assert.Less(t, EffectiveSpeedKmh(model.VehicleTruck, 1, 1.0), 45.0)
}

func TestBuildLegTimeDividesByDepartureTraffic(t *testing.T) {
	// A van leaving at the 08:00 morning peak covers a 10 km leg at
	// 40/1.5 km/h, so the raw leg is 0.375 h. The arrival-hour pass then
	// multiplies that by the projected factor on top.
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	b := frozenBuilder(start)
	neutral := testDriver
	neutral.ExperienceYears = 3

	hub := geo.HubGuatemala
	dest := model.Point{Lat: hub.Lat + 0.09, Lng: hub.Lng} // about 10 km north

	r, err := b.Build(
		[]model.Shipment{routeShipment("PEAK-LEG", model.TierStandard, dest, "Guatemala", 8)},
		neutral, "metropolitana", hub, start,
	)
	require.NoError(t, err)
	require.Len(t, r.Stops, 1)

	stop := r.Stops[0]
	assert.InDelta(t, stop.DistanceKm*1.5/40.0, stop.TravelHours, 0.01)
	assert.InDelta(t, stop.TravelHours*1.5, stop.AdjustedHours, 0.02)
}

func TestWindowUrgencyTracksWindowStart(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	// A window opening in two hours scores 98.
	assert.InDelta(t, 98.0, windowUrgencyScore(now, now.Add(2*time.Hour)), 1e-9)
	// An already-open window keeps climbing past 100.
	assert.Greater(t, windowUrgencyScore(now, now.Add(-3*time.Hour)), 100.0)
	// Far-future windows score zero.
	assert.Zero(t, windowUrgencyScore(now, now.Add(200*time.Hour)))
}

func TestTieBreakPrefersEarlierWindowStart(t *testing.T) {
	older := routeShipment("OLD", model.TierStandard, geo.HubGuatemala, "Guatemala", 2)
	newer := routeShipment("NEW", model.TierStandard, geo.HubGuatemala, "Guatemala", 2)
	newer.CreatedAt = older.CreatedAt.Add(2 * time.Hour)

	assert.True(t, betterCandidate(50, 50, &older, &newer))
	assert.False(t, betterCandidate(50, 50, &newer, &older))
}

func TestStopRecommendations(t *testing.T) {
	urgent := routeShipment("U", model.TierUrgent, geo.HubGuatemala, "Guatemala", 2)
	express := routeShipment("E", model.TierExpress, geo.HubGuatemala, "Guatemala", 2)
	standard := routeShipment("S", model.TierStandard, geo.HubGuatemala, "Guatemala", 2)

	assert.Contains(t, stopRecommendation(&urgent, 1.5), "alternate route")
	// Urgent alone does not trigger advice; the traffic has to be heavy too.
	assert.Empty(t, stopRecommendation(&urgent, 1.0))
	assert.Contains(t, stopRecommendation(&express, 1.3), "monitor traffic")
	assert.Contains(t, stopRecommendation(&standard, 0.8), "light traffic")
	assert.Empty(t, stopRecommendation(&standard, 1.0))
}

func TestPriorityScoreOrdering(t *testing.T) {
	urgent := routeShipment("U", model.TierUrgent, geo.HubGuatemala, "Guatemala", 3)
	standard := routeShipment("S", model.TierStandard, geo.HubGuatemala, "Guatemala", 3)
	assert.Greater(t, PriorityScore(&urgent, 10), PriorityScore(&standard, 10))

	light := routeShipment("L", model.TierStandard, geo.HubGuatemala, "Guatemala", 3)
	heavy := routeShipment("H", model.TierStandard, geo.HubGuatemala, "Guatemala", 25)
	assert.Greater(t, PriorityScore(&light, 10), PriorityScore(&heavy, 10))
}

func TestDeliveryWindowSpans(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := routeShipment("W", model.TierUrgent, geo.HubGuatemala, "Guatemala", 2)
	s.CreatedAt = created

	start, end := DeliveryWindow(&s)
	assert.Equal(t, created.Add(4*time.Hour), start)
	assert.Equal(t, created.Add(8*time.Hour), end)

	s.Tier = model.TierExpress
	start, end = DeliveryWindow(&s)
	assert.Equal(t, created.Add(24*time.Hour), start)
	assert.Equal(t, created.Add(48*time.Hour), end)

	s.Tier = model.TierStandard
	_, end = DeliveryWindow(&s)
	assert.Equal(t, created.Add(24*time.Hour), end)

	s.Tier = model.TierInternational
	_, end = DeliveryWindow(&s)
	assert.Equal(t, created.Add(168*time.Hour), end)
}
