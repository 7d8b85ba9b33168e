package estimate

import (
	"math"
	"testing"
	"time"

	"github.com/josepaz/rumbo/core/conditions"
	"github.com/josepaz/rumbo/core/geo"
	"github.com/josepaz/rumbo/core/model"
)

func frozen(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 11, hour, 30, 0, 0, time.UTC)
	}
}

func expressShipment() *model.Shipment {
	return &model.Shipment{
		ID:      "PKG1",
		Tier:    model.TierExpress,
		Origin:  model.Point{Lat: 14.6349, Lng: -90.5069},
		Dest:    model.Point{Lat: 12.1364, Lng: -86.2514},
		Package: model.Package{WeightKg: 5, ServiceClass: "Express Nacional"},
	}
}

func TestPreliminaryFormulaExpress(t *testing.T) {
	// Guatemala City -> Managua, express, 5 kg. The estimate must equal
	// (distance/50) x traffic(now) x weather(clear) x 0.7 x 1.0 + 1h,
	// whatever the frozen hour is.
	for _, hour := range []int{8, 10, 13, 18, 22} {
		e := New(conditions.Default())
		e.Now = frozen(hour)
		s := expressShipment()

		est := e.Preliminary(s, "clear")

		dist := geo.Distance(s.Origin, s.Dest)
		if dist <= 0 {
			t.Fatalf("distance = %v, want positive", dist)
		}
		want := dist/50*e.Conditions.TrafficFactor(hour)*1.0*0.7*1.0 + 1
		if math.Abs(est.TimeHours-math.Round(want*100)/100) > 1e-9 {
			t.Errorf("hour %d: TimeHours = %v, want %v", hour, est.TimeHours, want)
		}
		if est.HourOfDay != hour {
			t.Errorf("recorded hour = %d, want %d", est.HourOfDay, hour)
		}
		if est.Kind != model.EstimatePreliminary {
			t.Errorf("kind = %v", est.Kind)
		}
	}
}

func TestPreliminaryConfidenceBand(t *testing.T) {
	e := New(conditions.Default())
	e.Now = frozen(10)

	s := expressShipment()
	est := e.Preliminary(s, "clear")
	want := 90 - est.TimeHours/24*20
	if math.Abs(est.Confidence-math.Round(want*100)/100) > 1e-9 {
		t.Errorf("confidence = %v, want %v", est.Confidence, want)
	}

	// A trans-oceanic shipment clamps at the floor.
	far := expressShipment()
	far.Dest = model.Point{Lat: 41.3851, Lng: 2.1734}
	far.Tier = model.TierInternational
	far.Package.ServiceClass = "Internacional"
	if got := e.Preliminary(far, "storm").Confidence; got != 70 {
		t.Errorf("long-haul confidence = %v, want 70", got)
	}
}

func TestPreliminaryWeatherAndWeight(t *testing.T) {
	e := New(conditions.Default())
	e.Now = frozen(10)

	s := expressShipment()
	clear := e.Preliminary(s, "clear")
	rain := e.Preliminary(s, "rain")
	if rain.TimeHours <= clear.TimeHours {
		t.Error("rain must slow the estimate down")
	}
	if rain.Factors.Weather != 1.4 {
		t.Errorf("weather factor = %v", rain.Factors.Weather)
	}

	heavy := expressShipment()
	heavy.Package.WeightKg = 12
	if got := e.Preliminary(heavy, "clear").Factors.Weight; got != 1.2 {
		t.Errorf("weight factor = %v", got)
	}
}

func TestOptimizedImprovementSign(t *testing.T) {
	e := New(conditions.Default())
	e.Now = frozen(10)

	s := expressShipment()
	s.AppendEstimate(e.Preliminary(s, "clear"))
	prelim := s.Preliminary.TimeHours

	start := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	r := &model.Route{
		ID:      "route-1",
		Driver:  model.DriverSnapshot{ID: "DRV001", Name: "Carlos"},
		StartAt: start,
		Stops:   []model.Stop{{ShipmentID: "PKG1", Position: 1, TrafficFactor: 1.0}},
		Stats:   model.RouteStats{TotalDistanceKm: 295, EfficiencyPct: 80, OptimizationScore: 75},
	}

	// Faster than the preliminary estimate: positive improvement.
	fast := e.Optimized(s, r, r.Stops[0], prelim-3)
	if fast.ImprovementHours <= 0 {
		t.Errorf("improvement = %v, want positive", fast.ImprovementHours)
	}
	// Slower is allowed; the delta just flips sign.
	slow := e.Optimized(s, r, r.Stops[0], prelim+3)
	if slow.ImprovementHours >= 0 {
		t.Errorf("improvement = %v, want negative", slow.ImprovementHours)
	}
	// Sign must match preliminary minus optimized.
	if math.Abs((prelim-slow.TimeHours)-slow.ImprovementHours) > 1e-9 {
		t.Errorf("delta mismatch: %v vs %v", prelim-slow.TimeHours, slow.ImprovementHours)
	}
}

func TestOptimizedMetadata(t *testing.T) {
	e := New(conditions.Default())
	e.Now = frozen(9)

	s := expressShipment()
	s.AppendEstimate(e.Preliminary(s, "clear"))

	start := time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)
	r := &model.Route{
		ID:      "route-9",
		Driver:  model.DriverSnapshot{ID: "DRV002", Name: "Ana", Rating: 4.9},
		StartAt: start,
		Stops: []model.Stop{
			{ShipmentID: "other", Position: 1},
			{ShipmentID: "PKG1", Position: 2, TrafficFactor: 1.5, Recommendation: "monitor traffic"},
		},
		Stats: model.RouteStats{EfficiencyPct: 90, OptimizationScore: 88},
	}
	est := e.Optimized(s, r, r.Stops[1], 2.25)

	if est.RouteID != "route-9" || est.StopPosition != 2 || est.StopsInRoute != 2 {
		t.Errorf("route metadata = %q/%d/%d", est.RouteID, est.StopPosition, est.StopsInRoute)
	}
	if est.Driver == nil || est.Driver.ID != "DRV002" {
		t.Error("driver snapshot missing")
	}
	if est.TimeHours != 2.75 {
		t.Errorf("TimeHours = %v, want accumulated+0.5", est.TimeHours)
	}
	// Confidence 88 + 90/10 = 97 capped at 95.
	if est.Confidence != 95 {
		t.Errorf("confidence = %v, want capped 95", est.Confidence)
	}
	if est.DeliveryAt != start.Add(durationHours(2.75)) {
		t.Errorf("delivery at = %v", est.DeliveryAt)
	}
}
