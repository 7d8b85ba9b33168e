package metrics

import (
	"context"
	"time"

	"github.com/josepaz/rumbo/core/events"
	coremetrics "github.com/josepaz/rumbo/core/metrics"
	"github.com/josepaz/rumbo/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// optimization events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.RouteBuiltEvent:
					if r, ok := sink.(coremetrics.RouteRecorder); ok {
						_ = r.RecordRoute(coremetrics.RouteEvent{
							RouteID:     e.Route.ID,
							Zone:        e.Route.Zone,
							Vehicle:     e.Route.Vehicle,
							DriverID:    e.Route.Driver.ID,
							Stops:       e.Route.Stats.StopCount,
							DistanceKm:  e.Route.Stats.TotalDistanceKm,
							TotalHours:  e.Route.Stats.TotalHours,
							Efficiency:  e.Route.Stats.EfficiencyPct,
							Improvement: e.Route.Stats.ImprovementPct,
							Urgent:      e.Urgent,
							Time:        time.Now(),
						})
					}
				case events.EstimateEvent:
					if r, ok := sink.(coremetrics.EstimateRecorder); ok {
						_ = r.RecordEstimate(coremetrics.EstimateEvent{
							ShipmentID:  e.ShipmentID,
							Kind:        e.Estimate.Kind,
							Tier:        e.Tier,
							TimeHours:   e.Estimate.TimeHours,
							Confidence:  e.Estimate.Confidence,
							Improvement: e.Estimate.ImprovementHours,
							Time:        time.Now(),
						})
					}
				case events.RunCompletedEvent:
					_ = sink.RecordOptimizationResult(coremetrics.OptimizationResult{
						RunID:            e.RunID,
						StartedAt:        e.StartedAt,
						FinishedAt:       e.FinishedAt,
						RoutesCreated:    e.RoutesCreated,
						ShipmentsRouted:  e.ShipmentsRouted,
						GroupsSkipped:    e.GroupsSkipped,
						ShipmentsPending: e.Pending,
					})
				}
			}
		}
	}()
}
