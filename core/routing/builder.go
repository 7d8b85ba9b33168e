package routing

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/josepaz/rumbo/core/conditions"
	"github.com/josepaz/rumbo/core/geo"
	"github.com/josepaz/rumbo/core/model"
)

// ErrEmptyGroup is returned when a builder receives no shipments.
var ErrEmptyGroup = errors.New("empty shipment group")

// stopServiceHours is the handling time spent at each stop.
const stopServiceHours = 0.25

// baselineMinutesPerStop is the unoptimized reference a route is measured
// against when computing improvement.
const baselineMinutesPerStop = 45

// Builder produces an ordered route from a packed group.
type Builder interface {
	Build(shipments []model.Shipment, driver model.DriverSnapshot, zone string, origin model.Point, startAt time.Time) (model.Route, error)
}

// GreedyBuilder implements Builder with a nearest-best heuristic over the
// composite stop score. Ties are broken by tier priority, then by the earlier
// contractual window opening.
type GreedyBuilder struct {
	Conditions conditions.Config
	Now        func() time.Time
}

// NewGreedyBuilder returns a builder using the given condition table and the
// system clock.
func NewGreedyBuilder(cfg conditions.Config) *GreedyBuilder {
	return &GreedyBuilder{Conditions: cfg, Now: time.Now}
}

// Build implements Builder. startAt is the scheduled departure; arrival
// projections and traffic factors are computed forward from it.
func (b *GreedyBuilder) Build(shipments []model.Shipment, driver model.DriverSnapshot, zone string, origin model.Point, startAt time.Time) (model.Route, error) {
	if len(shipments) == 0 {
		return model.Route{}, ErrEmptyGroup
	}

	now := b.Now()
	remaining := make([]*model.Shipment, len(shipments))
	vehicle := shipments[0].Vehicle
	for i := range shipments {
		remaining[i] = &shipments[i]
	}

	speed := EffectiveSpeedKmh(vehicle, driver.ExperienceYears, b.Conditions.TrafficFactor(now.Hour()))

	// First pass: order stops greedily by composite score from the moving
	// position.
	var ordered []*model.Shipment
	current := origin
	for len(remaining) > 0 {
		best := 0
		bestScore := StopScore(current, origin, remaining[0], driver, now)
		for i := 1; i < len(remaining); i++ {
			s := StopScore(current, origin, remaining[i], driver, now)
			if betterCandidate(s, bestScore, remaining[i], remaining[best]) {
				best, bestScore = i, s
			}
		}
		picked := remaining[best]
		ordered = append(ordered, picked)
		remaining = append(remaining[:best], remaining[best+1:]...)
		current = picked.Dest
	}

	// Second pass: walk the ordered stops projecting arrival times, applying
	// the traffic factor of the projected arrival hour rather than the
	// departure hour.
	route := model.Route{
		ID:        "RT-" + strings.ToUpper(uuid.NewString()[:8]),
		Zone:      zone,
		Vehicle:   vehicle,
		Driver:    driver,
		Origin:    origin,
		StartAt:   startAt,
		State:     model.RouteProgrammed,
		CreatedAt: now,
	}

	clock := startAt
	current = origin
	legDistances := make([]float64, 0, len(ordered))
	legHours := make([]float64, 0, len(ordered))
	for i, s := range ordered {
		dist := geo.Distance(current, s.Dest)
		travel := dist / speed

		provisional := clock.Add(durationHours(travel))
		traffic := b.Conditions.TrafficFactor(provisional.Hour())
		adjusted := travel * traffic
		arrival := clock.Add(durationHours(adjusted))

		stop := model.Stop{
			ShipmentID:     s.ID,
			Position:       i + 1,
			Dest:           s.Dest,
			City:           s.Recipient.City,
			DistanceKm:     round2(dist),
			TravelHours:    round2(travel),
			AdjustedHours:  round2(adjusted),
			ArrivalAt:      arrival,
			TrafficFactor:  traffic,
			Score:          round2(StopScore(current, origin, s, driver, now)),
			Recommendation: stopRecommendation(s, traffic),
		}
		route.Stops = append(route.Stops, stop)

		legDistances = append(legDistances, dist)
		legHours = append(legHours, adjusted)
		clock = arrival.Add(durationHours(stopServiceHours))
		current = s.Dest
	}

	route.Stats = buildStats(legDistances, legHours, len(ordered), startAt)
	return route, nil
}

// betterCandidate reports whether candidate (score s) beats the incumbent
// (score best). Near-equal scores fall back to tier priority, then the earlier
// contractual window opening.
func betterCandidate(s, best float64, candidate, incumbent *model.Shipment) bool {
	const eps = 1e-9
	if s > best+eps {
		return true
	}
	if s < best-eps {
		return false
	}
	cr, ir := candidate.Tier.PriorityRank(), incumbent.Tier.PriorityRank()
	if cr != ir {
		return cr < ir
	}
	cs, _ := DeliveryWindow(candidate)
	is, _ := DeliveryWindow(incumbent)
	return cs.Before(is)
}

func stopRecommendation(s *model.Shipment, traffic float64) string {
	switch {
	case traffic > 1.4 && s.Tier == model.TierUrgent:
		return "heavy traffic projected, consider an alternate route for this stop"
	case traffic > 1.2 && s.Tier == model.TierExpress:
		return "monitor traffic on this leg, the route may need adjusting"
	case traffic < 0.9:
		return "light traffic expected, keep the planned route"
	default:
		return ""
	}
}

func buildStats(legDistances, legHours []float64, stops int, startAt time.Time) model.RouteStats {
	totalKm := floats.Sum(legDistances)
	totalHours := floats.Sum(legHours) + stopServiceHours*float64(stops)

	avgKm := stat.Mean(legDistances, nil)
	avgHours := totalHours / float64(stops)

	totalMinutes := totalHours * 60
	distTerm := 100 - totalKm/float64(stops)
	if distTerm < 0 {
		distTerm = 0
	}
	timeTerm := 100 - totalMinutes/float64(stops)/30
	if timeTerm < 0 {
		timeTerm = 0
	}
	score := (distTerm + timeTerm) / 2

	baselineHours := baselineMinutesPerStop * float64(stops) / 60
	improvement := (baselineHours - totalHours) / baselineHours * 100
	if improvement < 15 {
		improvement = 15
	}
	efficiency := 60 + improvement
	if efficiency > 95 {
		efficiency = 95
	}

	return model.RouteStats{
		TotalDistanceKm:   round2(totalKm),
		TotalHours:        round2(totalHours),
		StopCount:         stops,
		AvgDistanceKm:     round2(avgKm),
		AvgHours:          round2(avgHours),
		ImprovementPct:    round2(improvement),
		EfficiencyPct:     round2(efficiency),
		OptimizationScore: round2(score),
		EstimatedEndAt:    startAt.Add(durationHours(totalHours)),
	}
}

func durationHours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
