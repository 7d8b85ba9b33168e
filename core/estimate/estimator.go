// Package estimate produces delivery-time predictions: a preliminary one at
// shipment creation and a refined one once the shipment has a position on an
// optimized route.
package estimate

import (
	"math"
	"time"

	"github.com/josepaz/rumbo/core/conditions"
	"github.com/josepaz/rumbo/core/geo"
	"github.com/josepaz/rumbo/core/model"
)

// baseCruiseKmh is the assumed average speed for the preliminary estimate,
// before any vehicle or driver is known.
const baseCruiseKmh = 50

// optimizedPrepHours is the fixed handling overhead applied to estimates
// recomputed from a route position. Smaller than the tier processing overhead
// because the shipment is already staged.
const optimizedPrepHours = 0.5

// Estimator computes estimates from current conditions. Now is injectable so
// tests can freeze the wall clock the traffic factor is sampled at.
type Estimator struct {
	Conditions conditions.Config
	Now        func() time.Time
}

// New returns an Estimator using the given condition table and the system
// clock.
func New(cfg conditions.Config) *Estimator {
	return &Estimator{Conditions: cfg, Now: time.Now}
}

// Preliminary predicts delivery time at shipment creation, before grouping
// or routing. Weather defaults to clear when unknown.
func (e *Estimator) Preliminary(s *model.Shipment, weather string) model.Estimate {
	now := e.Now()
	hour := now.Hour()

	dist := geo.Distance(s.Origin, s.Dest)
	f := model.Factors{
		Traffic:         e.Conditions.TrafficFactor(hour),
		Weather:         e.Conditions.WeatherFactor(weather),
		Tier:            e.Conditions.TierFactor(s.Tier, s.Package.ServiceClass),
		Weight:          conditions.WeightFactor(s.Package.WeightKg),
		ProcessingHours: conditions.ProcessingHours(s.Tier),
	}

	hours := dist/baseCruiseKmh*f.Traffic*f.Weather*f.Tier*f.Weight + f.ProcessingHours

	return model.Estimate{
		Kind:       model.EstimatePreliminary,
		TimeHours:  round2(hours),
		DeliveryAt: now.Add(durationHours(hours)),
		DistanceKm: round2(dist),
		Confidence: confidence(hours),
		Factors:    f,
		HourOfDay:  hour,
		CreatedAt:  now,
	}
}

// Optimized recomputes the estimate for a stop on a built route.
// accumulatedHours is the traffic-adjusted travel time from the route start
// up to and including the shipment's stop. The improvement delta is signed:
// positive means the route beats the preliminary prediction.
func (e *Estimator) Optimized(s *model.Shipment, r *model.Route, stop model.Stop, accumulatedHours float64) model.Estimate {
	now := e.Now()
	hours := accumulatedHours + optimizedPrepHours

	improvement := 0.0
	if s.Preliminary != nil {
		improvement = s.Preliminary.TimeHours - hours
	}

	conf := 88 + r.Stats.EfficiencyPct/10
	if conf > 95 {
		conf = 95
	}

	driver := r.Driver
	return model.Estimate{
		Kind:              model.EstimateOptimized,
		TimeHours:         round2(hours),
		DeliveryAt:        r.StartAt.Add(durationHours(hours)),
		DistanceKm:        round2(r.Stats.TotalDistanceKm),
		Confidence:        round2(conf),
		Factors:           model.Factors{Traffic: stop.TrafficFactor, Weather: 1, Tier: 1, Weight: 1, ProcessingHours: optimizedPrepHours},
		HourOfDay:         now.Hour(),
		CreatedAt:         now,
		RouteID:           r.ID,
		StopPosition:      stop.Position,
		StopsInRoute:      len(r.Stops),
		Driver:            &driver,
		OptimizationScore: r.Stats.OptimizationScore,
		ImprovementHours:  round2(improvement),
		Recommendation:    stop.Recommendation,
	}
}

// confidence maps predicted hours to a reliability percentage: shorter
// predictions are trusted more, clamped to the 70-95 band.
func confidence(hours float64) float64 {
	c := 90 - (hours/24)*20
	if c < 70 {
		c = 70
	}
	if c > 95 {
		c = 95
	}
	return round2(c)
}

func durationHours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
