// Package routing turns a packed shipment group into an ordered route. The
// builder is greedy: at each step it scores every remaining shipment against
// the vehicle's current position and takes the best one.
package routing

import (
	"time"

	"github.com/josepaz/rumbo/core/geo"
	"github.com/josepaz/rumbo/core/model"
)

// Composite stop score weights.
const (
	proximityWeight  = 0.40
	priorityWeight   = 0.35
	experienceWeight = 0.15
	windowWeight     = 0.10
)

// Priority sub-score weights.
const (
	urgencyWeight    = 0.30
	valueWeight      = 0.20
	complexityWeight = 0.25
	distanceWeight   = 0.25
)

// Contracted delivery spans per tier, from shipment creation.
var deliverySpanHours = map[model.ServiceTier]float64{
	model.TierUrgent:        8,
	model.TierExpress:       48,
	model.TierStandard:      24,
	model.TierInternational: 168,
}

// DeliveryWindow is the contractual time range a shipment should arrive in.
// The window opens at half the contracted span so extremely early deliveries
// do not count as on-time either.
func DeliveryWindow(s *model.Shipment) (start, end time.Time) {
	span := deliverySpanHours[s.Tier]
	if span == 0 {
		span = deliverySpanHours[model.TierStandard]
	}
	start = s.CreatedAt.Add(time.Duration(span * 0.5 * float64(time.Hour)))
	end = s.CreatedAt.Add(time.Duration(span * float64(time.Hour)))
	return start, end
}

func tierUrgencyScore(t model.ServiceTier) float64 {
	switch t {
	case model.TierUrgent:
		return 100
	case model.TierExpress:
		return 80
	case model.TierStandard:
		return 60
	default:
		return 40
	}
}

func weightComplexityScore(weightKg float64) float64 {
	if weightKg <= 5 {
		return 100
	}
	s := 100 - (weightKg-5)*5
	if s < 60 {
		return 60
	}
	return s
}

func hubDistanceScore(distKm float64) float64 {
	s := 100 - distKm*2
	if s < 20 {
		return 20
	}
	return s
}

// PriorityScore rates how much a shipment deserves an early slot, independent
// of where the vehicle currently is. hubDistKm is measured from the route
// origin.
func PriorityScore(s *model.Shipment, hubDistKm float64) float64 {
	value := s.Package.DeclaredQ / 10
	if value > 100 {
		value = 100
	}
	return urgencyWeight*tierUrgencyScore(s.Tier) +
		valueWeight*value +
		complexityWeight*weightComplexityScore(s.Package.WeightKg) +
		distanceWeight*hubDistanceScore(hubDistKm)
}

func proximityScore(fromCurrentKm float64) float64 {
	s := 100 - 3*fromCurrentKm
	if s < 0 {
		return 0
	}
	return s
}

func experienceScore(years float64) float64 {
	s := years * 10
	if s > 100 {
		return 100
	}
	return s
}

// windowUrgencyScore grows as the contractual window opening approaches. A
// window opening within the hour scores near 100; one opening four days out
// scores 0. A window already open keeps climbing past 100, so overdue
// shipments win the temporal term outright.
func windowUrgencyScore(now, windowStart time.Time) float64 {
	until := windowStart.Sub(now).Hours()
	s := 100 - until
	if s < 0 {
		return 0
	}
	return s
}

// StopScore is the composite used to pick the next stop.
func StopScore(current model.Point, origin model.Point, s *model.Shipment, driver model.DriverSnapshot, now time.Time) float64 {
	start, _ := DeliveryWindow(s)
	return proximityWeight*proximityScore(geo.Distance(current, s.Dest)) +
		priorityWeight*PriorityScore(s, geo.Distance(origin, s.Dest)) +
		experienceWeight*experienceScore(driver.ExperienceYears) +
		windowWeight*windowUrgencyScore(now, start)
}

// EffectiveSpeedKmh adjusts the vehicle's base speed for driver experience and
// the traffic factor at departure. Three years is the neutral point; each year
// above or below moves speed 5%. Heavy departure traffic slows the whole run,
// so the base speed is divided by the factor.
func EffectiveSpeedKmh(vehicle model.VehicleClass, experienceYears, departureTraffic float64) float64 {
	return vehicle.BaseSpeedKmh() * (1 + (experienceYears-3)*0.05) / departureTraffic
}
