package model

import (
	"strconv"
	"strings"
	"time"
)

// ServiceTier identifies the contracted delivery service level.
type ServiceTier string

const (
	TierUrgent        ServiceTier = "urgent"
	TierExpress       ServiceTier = "express"
	TierStandard      ServiceTier = "standard"
	TierInternational ServiceTier = "international"
)

// ParseServiceTier maps a declared service name to a tier. Declarations are
// free-form customer input ("Urgente Nacional", "Express", ...), so matching
// is by substring. Unknown names fall back to the standard tier.
func ParseServiceTier(declared string) ServiceTier {
	s := strings.ToLower(declared)
	switch {
	case strings.Contains(s, "urgent"):
		return TierUrgent
	case strings.Contains(s, "express"):
		return TierExpress
	case strings.Contains(s, "internacional"), strings.Contains(s, "international"):
		return TierInternational
	default:
		return TierStandard
	}
}

// PriorityRank returns the dispatch priority of the tier. Lower is more
// urgent.
func (t ServiceTier) PriorityRank() int {
	switch t {
	case TierUrgent:
		return 1
	case TierExpress:
		return 2
	case TierInternational:
		return 3
	default:
		return 4
	}
}

// UrgencyCategory buckets the tier for routing recommendations.
func (t ServiceTier) UrgencyCategory() string {
	switch t {
	case TierUrgent:
		return "critical"
	case TierExpress:
		return "high"
	case TierStandard:
		return "medium"
	default:
		return "low"
	}
}

// ShipmentState tracks a shipment through its lifecycle.
type ShipmentState string

const (
	StatePending   ShipmentState = "pending"
	StateGrouped   ShipmentState = "grouped"
	StateRouted    ShipmentState = "routed"
	StateAssigned  ShipmentState = "assigned"
	StateOptimized ShipmentState = "optimized"
	// StateOptimizedRefined marks shipments whose estimate was re-derived
	// from the final route order. It behaves exactly like StateOptimized;
	// both labels are kept because downstream consumers distinguish them.
	StateOptimizedRefined ShipmentState = "optimized_refined"
	StateInTransit        ShipmentState = "in_transit"
	StateDelivered        ShipmentState = "delivered"
	// StateProblem is absorbing and reachable from any in-flight state.
	StateProblem ShipmentState = "problem"
)

var legalTransitions = map[ShipmentState][]ShipmentState{
	StatePending:          {StateGrouped, StateProblem},
	StateGrouped:          {StateRouted, StateProblem},
	StateRouted:           {StateAssigned, StateProblem},
	StateAssigned:         {StateOptimized, StateOptimizedRefined, StateProblem},
	StateOptimized:        {StateOptimizedRefined, StateInTransit, StateProblem},
	StateOptimizedRefined: {StateInTransit, StateProblem},
	StateInTransit:        {StateDelivered, StateProblem},
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Terminal states (delivered, problem) admit no successors.
func (s ShipmentState) CanTransition(next ShipmentState) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the state admits no further transitions.
func (s ShipmentState) Terminal() bool {
	return s == StateDelivered || s == StateProblem
}

// Address describes one endpoint of a shipment.
type Address struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	City   string `json:"city"`
	Region string `json:"region,omitempty"`
}

// Package holds the declared physical properties of a shipment.
type Package struct {
	WeightKg     float64 `json:"weight_kg"`
	VolumeM3     float64 `json:"volume_m3"`
	DeclaredQ    float64 `json:"declared_value_q"`
	ServiceClass string  `json:"service_class"`
}

const (
	// Conservative defaults applied when customers declare unusable
	// dimensions or weight, so packing can always proceed.
	DefaultWeightKg   = 5
	defaultDimensions = "20x15x10"
)

// ParseWeight converts a declared weight string to kilograms, defaulting to
// DefaultWeightKg on malformed or non-positive input.
func ParseWeight(declared string) float64 {
	w, err := strconv.ParseFloat(strings.TrimSpace(declared), 64)
	if err != nil || w <= 0 {
		return DefaultWeightKg
	}
	return w
}

// ParseDimensions converts a declared "LxWxH" dimension string (centimetres)
// to cubic metres. Malformed input falls back to a conservative 20x15x10 box.
func ParseDimensions(declared string) float64 {
	vol, ok := dimensionsToM3(declared)
	if !ok {
		vol, _ = dimensionsToM3(defaultDimensions)
	}
	return vol
}

func dimensionsToM3(dims string) (float64, bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(dims)), "x")
	if len(parts) != 3 {
		return 0, false
	}
	product := 1.0
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 {
			return 0, false
		}
		product *= v
	}
	return product / 1e6, true
}

// Shipment is the unit of work flowing through the engine. It is owned by
// the pending queue until grouped, then by its route.
type Shipment struct {
	ID        string        `json:"id"`
	Sender    Address       `json:"sender"`
	Recipient Address       `json:"recipient"`
	Package   Package       `json:"package"`
	Tier      ServiceTier   `json:"tier"`
	Origin    Point         `json:"origin"`
	Dest      Point         `json:"dest"`
	Zone      string        `json:"zone"`
	Vehicle   VehicleClass  `json:"vehicle"`
	Priority  int           `json:"priority"`
	QuoteQ    float64       `json:"quote_q,omitempty"`
	State     ShipmentState `json:"state"`
	CreatedAt time.Time     `json:"created_at"`

	Preliminary *Estimate  `json:"preliminary,omitempty"`
	Current     *Estimate  `json:"current,omitempty"`
	History     []Estimate `json:"history,omitempty"`

	RouteID  string `json:"route_id,omitempty"`
	DriverID string `json:"driver_id,omitempty"`
}

// AppendEstimate records a new estimate, keeping the history append-only and
// the Current pointer on the latest element.
func (s *Shipment) AppendEstimate(e Estimate) {
	s.History = append(s.History, e)
	s.Current = &s.History[len(s.History)-1]
	if s.Preliminary == nil && e.Kind == EstimatePreliminary {
		s.Preliminary = &s.History[len(s.History)-1]
	}
}

// Point is a geographic coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
