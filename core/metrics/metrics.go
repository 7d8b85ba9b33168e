package metrics

import (
	"time"

	"github.com/josepaz/rumbo/core/model"
)

// OptimizationResult summarizes one optimization run.
type OptimizationResult struct {
	RunID             string
	StartedAt         time.Time
	FinishedAt        time.Time
	GroupsConsidered  int
	GroupsSkipped     int
	RoutesCreated     int
	ShipmentsRouted   int
	ShipmentsPending  int
	AvgImprovementPct float64
}

// MetricsSink records optimization results for observability purposes.
type MetricsSink interface {
	RecordOptimizationResult(res OptimizationResult) error
}

// RouteEvent captures one built route.
type RouteEvent struct {
	RouteID     string
	Zone        string
	Vehicle     model.VehicleClass
	DriverID    string
	Stops       int
	DistanceKm  float64
	TotalHours  float64
	Efficiency  float64
	Improvement float64
	Urgent      bool
	Time        time.Time
}

// RouteRecorder records built routes.
type RouteRecorder interface {
	RecordRoute(ev RouteEvent) error
}

// EstimateEvent captures an emitted delivery estimate.
type EstimateEvent struct {
	ShipmentID  string
	Kind        model.EstimateKind
	Tier        model.ServiceTier
	TimeHours   float64
	Confidence  float64
	Improvement float64
	Time        time.Time
}

// EstimateRecorder records delivery estimates.
type EstimateRecorder interface {
	RecordEstimate(ev EstimateEvent) error
}

// QueueDepthEvent is a snapshot of the pending queue.
type QueueDepthEvent struct {
	Pending int
	Time    time.Time
}

// QueueRecorder records pending queue depth.
type QueueRecorder interface {
	RecordQueueDepth(ev QueueDepthEvent) error
}

// AssignmentEvent captures a driver assignment attempt.
type AssignmentEvent struct {
	RouteID  string
	DriverID string
	Vehicle  model.VehicleClass
	Zone     string
	Assigned bool
	Time     time.Time
}

// AssignmentRecorder records driver assignment attempts.
type AssignmentRecorder interface {
	RecordAssignment(ev AssignmentEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordOptimizationResult(OptimizationResult) error { return nil }
func (NopSink) RecordRoute(RouteEvent) error                      { return nil }
func (NopSink) RecordEstimate(EstimateEvent) error                { return nil }
func (NopSink) RecordQueueDepth(QueueDepthEvent) error            { return nil }
func (NopSink) RecordAssignment(AssignmentEvent) error            { return nil }
