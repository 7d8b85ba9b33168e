package model

import "time"

// RouteState tracks a route from creation through driver execution.
type RouteState string

const (
	RouteProgrammed   RouteState = "programmed"
	RouteReadyToStart RouteState = "ready_to_start"
	RouteInProgress   RouteState = "in_progress"
	RouteCompleted    RouteState = "completed"
)

// Window is the operating-hour range within which a route may start.
type Window struct {
	Tier         ServiceTier `json:"tier"`
	StartHour    int         `json:"start_hour"`
	EndHour      int         `json:"end_hour"`
	WeekdaysOnly bool        `json:"weekdays_only"`
}

// Stop is one delivery on a route.
type Stop struct {
	ShipmentID string  `json:"shipment_id"`
	Position   int     `json:"position"` // 1-based position in route order
	Dest       Point   `json:"dest"`
	City       string  `json:"city"`
	DistanceKm float64 `json:"distance_km"` // from previous stop
	// TravelHours is the raw leg estimate at route-build time.
	TravelHours float64 `json:"travel_hours"`
	// AdjustedHours applies the traffic factor projected for the arrival
	// hour, not the departure hour.
	AdjustedHours  float64   `json:"adjusted_hours"`
	ArrivalAt      time.Time `json:"arrival_at"`
	TrafficFactor  float64   `json:"traffic_factor"`
	Score          float64   `json:"score"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// RouteStats aggregates a built route.
type RouteStats struct {
	TotalDistanceKm   float64   `json:"total_distance_km"`
	TotalHours        float64   `json:"total_hours"`
	StopCount         int       `json:"stop_count"`
	AvgDistanceKm     float64   `json:"avg_distance_km"`
	AvgHours          float64   `json:"avg_hours"`
	ImprovementPct    float64   `json:"improvement_pct"`
	EfficiencyPct     float64   `json:"efficiency_pct"`
	OptimizationScore float64   `json:"optimization_score"`
	EstimatedEndAt    time.Time `json:"estimated_end_at"`
}

// Route is an ordered, capacity-bounded set of stops bound to one driver.
// Routes are immutable once created except for state transitions.
type Route struct {
	ID        string         `json:"id"`
	Zone      string         `json:"zone"`
	Vehicle   VehicleClass   `json:"vehicle"`
	Driver    DriverSnapshot `json:"driver"`
	Origin    Point          `json:"origin"`
	Stops     []Stop         `json:"stops"`
	Window    Window         `json:"window"`
	StartAt   time.Time      `json:"start_at"`
	State     RouteState     `json:"state"`
	Stats     RouteStats     `json:"stats"`
	CreatedAt time.Time      `json:"created_at"`
}

// HasUrgent reports whether any stop belongs to an urgent-tier shipment.
// The shipment map must cover all stop ids.
func (r Route) HasUrgent(shipments map[string]*Shipment) bool {
	for _, st := range r.Stops {
		if s, ok := shipments[st.ShipmentID]; ok && s.Tier == TierUrgent {
			return true
		}
	}
	return false
}
