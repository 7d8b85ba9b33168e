package model

import "time"

// EstimateKind distinguishes the rough creation-time prediction from the one
// re-derived after route optimization.
type EstimateKind string

const (
	EstimatePreliminary EstimateKind = "preliminary"
	EstimateOptimized   EstimateKind = "optimized"
)

// Factors lists the multiplicative terms applied to the base travel time.
type Factors struct {
	Traffic         float64 `json:"traffic"`
	Weather         float64 `json:"weather"`
	Tier            float64 `json:"tier"`
	Weight          float64 `json:"weight"`
	ProcessingHours float64 `json:"processing_hours"`
}

// Estimate is a point-in-time delivery prediction. Estimates are immutable
// once produced; shipments accumulate them in an append-only history.
type Estimate struct {
	Kind       EstimateKind `json:"kind"`
	TimeHours  float64      `json:"time_hours"`
	DeliveryAt time.Time    `json:"delivery_at"`
	DistanceKm float64      `json:"distance_km"`
	Confidence float64      `json:"confidence"` // percentage, 70-95
	Factors    Factors      `json:"factors"`
	// HourOfDay records the wall-clock hour the traffic factor was sampled
	// at, so predictions can be reproduced under a frozen clock.
	HourOfDay int       `json:"hour_of_day"`
	CreatedAt time.Time `json:"created_at"`

	// Fields below are populated only on optimized estimates.
	RouteID           string          `json:"route_id,omitempty"`
	StopPosition      int             `json:"stop_position,omitempty"`
	StopsInRoute      int             `json:"stops_in_route,omitempty"`
	Driver            *DriverSnapshot `json:"driver,omitempty"`
	OptimizationScore float64         `json:"optimization_score,omitempty"`
	// ImprovementHours is preliminary minus optimized time. Positive means
	// the optimized route delivers faster.
	ImprovementHours float64 `json:"improvement_hours,omitempty"`
	Recommendation   string  `json:"recommendation,omitempty"`
}
