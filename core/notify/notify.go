// Package notify builds customer and driver notifications from optimization
// results and fans them out to configured sinks. Sink failures never fail an
// optimization run; they are logged and dropped.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/josepaz/rumbo/core/logger"
	"github.com/josepaz/rumbo/core/model"
)

// EventType distinguishes notification audiences and triggers.
type EventType string

const (
	EventShipmentEstimate EventType = "shipment_estimate"
	EventShipmentState    EventType = "shipment_state"
	EventDriverRoute      EventType = "driver_route"
)

// Tone classifies how an estimate change should be framed to the customer.
type Tone string

const (
	// ToneImproved marks a gain of more than two hours over the
	// preliminary estimate.
	ToneImproved Tone = "improved"
	// ToneOptimized marks a moderate gain, between half an hour and two.
	ToneOptimized Tone = "optimized"
	// ToneAdjusted marks a delay of more than one hour.
	ToneAdjusted Tone = "adjusted"
	ToneNeutral  Tone = "neutral"
)

// Event is one outbound notification.
type Event struct {
	Type       EventType      `json:"type"`
	Tone       Tone           `json:"tone,omitempty"`
	ShipmentID string         `json:"shipment_id,omitempty"`
	RouteID    string         `json:"route_id,omitempty"`
	DriverID   string         `json:"driver_id,omitempty"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Data       map[string]any `json:"data,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Sink delivers events to an external channel.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) error { return nil }

// Notifier fans events out to every sink.
type Notifier struct {
	sinks []Sink
	log   logger.Logger
	now   func() time.Time
}

// New returns a Notifier over the given sinks.
func New(log logger.Logger, sinks ...Sink) *Notifier {
	return &Notifier{sinks: sinks, log: log, now: time.Now}
}

// Emit publishes the event to all sinks, logging failures.
func (n *Notifier) Emit(ctx context.Context, e Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = n.now()
	}
	for _, s := range n.sinks {
		if err := s.Publish(ctx, e); err != nil {
			n.log.Errorf("notify: publish %s for %s: %v", e.Type, e.ShipmentID, err)
		}
	}
}

// ClassifyImprovement buckets a signed improvement delta, in hours, into the
// tone used for customer messaging.
func ClassifyImprovement(deltaHours float64) Tone {
	switch {
	case deltaHours > 2:
		return ToneImproved
	case deltaHours > 0.5:
		return ToneOptimized
	case deltaHours < -1:
		return ToneAdjusted
	default:
		return ToneNeutral
	}
}

// ShipmentEstimate builds the customer notification for a refined estimate.
func ShipmentEstimate(s *model.Shipment, est model.Estimate) Event {
	tone := ClassifyImprovement(est.ImprovementHours)

	var title, msg string
	switch tone {
	case ToneImproved:
		title = "Your delivery moved up"
		msg = fmt.Sprintf("Good news: shipment %s is now expected %.1f hours earlier, around %s.",
			s.ID, est.ImprovementHours, est.DeliveryAt.Format("Mon 15:04"))
	case ToneOptimized:
		title = "Delivery route optimized"
		msg = fmt.Sprintf("Shipment %s was placed on an optimized route and is expected around %s.",
			s.ID, est.DeliveryAt.Format("Mon 15:04"))
	case ToneAdjusted:
		title = "Delivery time adjusted"
		msg = fmt.Sprintf("Shipment %s is now expected around %s. We apologize for the change.",
			s.ID, est.DeliveryAt.Format("Mon 15:04"))
	default:
		title = "Delivery scheduled"
		msg = fmt.Sprintf("Shipment %s is scheduled for delivery around %s.",
			s.ID, est.DeliveryAt.Format("Mon 15:04"))
	}

	data := map[string]any{
		"eta":         est.DeliveryAt,
		"confidence":  est.Confidence,
		"improvement": est.ImprovementHours,
	}
	if est.Driver != nil {
		data["driver_name"] = est.Driver.Name
		data["driver_phone"] = est.Driver.Phone
	}

	return Event{
		Type:       EventShipmentEstimate,
		Tone:       tone,
		ShipmentID: s.ID,
		RouteID:    est.RouteID,
		Title:      title,
		Message:    msg,
		Data:       data,
	}
}

// ShipmentState builds the customer notification for a lifecycle change.
func ShipmentState(s *model.Shipment, from, to model.ShipmentState) Event {
	return Event{
		Type:       EventShipmentState,
		ShipmentID: s.ID,
		RouteID:    s.RouteID,
		Title:      "Shipment update",
		Message:    fmt.Sprintf("Shipment %s moved from %s to %s.", s.ID, from, to),
		Data:       map[string]any{"from": from, "to": to},
	}
}

// DriverRoute builds the briefing sent to a driver when a route is assigned.
// hasUrgent flags that the route carries at least one urgent shipment.
func DriverRoute(r model.Route, hasUrgent bool) Event {
	msg := fmt.Sprintf("Route %s: %d stops, %.1f km, departure %s.",
		r.ID, r.Stats.StopCount, r.Stats.TotalDistanceKm, r.StartAt.Format("Mon 15:04"))
	if hasUrgent {
		msg += " Includes urgent deliveries."
	}
	return Event{
		Type:     EventDriverRoute,
		RouteID:  r.ID,
		DriverID: r.Driver.ID,
		Title:    "New route assigned",
		Message:  msg,
		Data: map[string]any{
			"stops":       r.Stats.StopCount,
			"distance_km": r.Stats.TotalDistanceKm,
			"start_at":    r.StartAt,
			"urgent":      hasUrgent,
			"zone":        r.Zone,
		},
	}
}
