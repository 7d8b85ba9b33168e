// Package events defines the optimization events emitted on the event bus.
//
// Available event types:
//   - ShipmentCreatedEvent: a shipment entered the pending queue
//   - RouteBuiltEvent: the optimizer produced a route
//   - EstimateEvent: a delivery estimate was emitted or refined
//   - RunCompletedEvent: an optimization run finished
package events

import (
	"time"

	"github.com/josepaz/rumbo/core/model"
)

// ShipmentCreatedEvent is published when a shipment is registered.
type ShipmentCreatedEvent struct {
	Shipment model.Shipment
}

// RouteBuiltEvent is published for each route created by an optimization run.
type RouteBuiltEvent struct {
	Route  model.Route
	Urgent bool
}

// EstimateEvent is published when a shipment receives a new estimate.
type EstimateEvent struct {
	ShipmentID string
	Tier       model.ServiceTier
	Estimate   model.Estimate
}

// RunCompletedEvent summarizes a finished optimization run.
type RunCompletedEvent struct {
	RunID           string
	RoutesCreated   int
	ShipmentsRouted int
	GroupsSkipped   int
	Pending         int
	StartedAt       time.Time
	FinishedAt      time.Time
}
