package engine

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/josepaz/rumbo/core/assign"
	"github.com/josepaz/rumbo/core/model"
)

// timeSavedCapPct bounds the reported time-saved figure so a handful of
// short routes cannot inflate the network-level number.
const timeSavedCapPct = 45

// NetworkStats is the operational snapshot served to dashboards.
type NetworkStats struct {
	RoutesActive     int            `json:"routes_active"`
	ShipmentsRouted  int            `json:"shipments_routed"`
	ShipmentsPending int            `json:"shipments_pending"`
	AvgTimeSavedPct  float64        `json:"avg_time_saved_pct"`
	AvgEfficiencyPct float64        `json:"avg_efficiency_pct"`
	AvgRouteHours    float64        `json:"avg_route_hours"`
	TotalDistanceKm  float64        `json:"total_distance_km"`
	VehiclesActive   int            `json:"vehicles_active"`
	DriversAvailable int            `json:"drivers_available"`
	Fleet            assign.Summary `json:"fleet"`
}

// Stats aggregates active routes, the pending queue and the driver pool into
// one snapshot.
func (e *Engine) Stats(ctx context.Context) (NetworkStats, error) {
	routes, err := e.store.ActiveRoutes(ctx)
	if err != nil {
		return NetworkStats{}, fmt.Errorf("load active routes: %w", err)
	}
	fleet := e.pool.Summary()

	ns := NetworkStats{
		RoutesActive:     len(routes),
		ShipmentsPending: e.queue.Len(),
		VehiclesActive:   fleet.Total - fleet.Available,
		DriversAvailable: fleet.Available,
		Fleet:            fleet,
	}

	if len(routes) == 0 {
		return ns, nil
	}

	improvements := make([]float64, 0, len(routes))
	efficiencies := make([]float64, 0, len(routes))
	hours := make([]float64, 0, len(routes))
	for _, r := range routes {
		ns.ShipmentsRouted += len(r.Stops)
		ns.TotalDistanceKm += r.Stats.TotalDistanceKm
		improvements = append(improvements, r.Stats.ImprovementPct)
		efficiencies = append(efficiencies, r.Stats.EfficiencyPct)
		hours = append(hours, r.Stats.TotalHours)
	}
	ns.AvgTimeSavedPct = round2(min(timeSavedCapPct, stat.Mean(improvements, nil)))
	ns.AvgEfficiencyPct = round2(stat.Mean(efficiencies, nil))
	ns.AvgRouteHours = round2(stat.Mean(hours, nil))
	ns.TotalDistanceKm = round2(ns.TotalDistanceKm)
	return ns, nil
}

// ActiveRoutes lists the routes not yet completed, newest first.
func (e *Engine) ActiveRoutes(ctx context.Context) ([]model.Route, error) {
	return e.store.ActiveRoutes(ctx)
}

// Shipment looks up one shipment by tracking id.
func (e *Engine) Shipment(ctx context.Context, id string) (model.Shipment, error) {
	return e.store.Shipment(ctx, id)
}

// FleetSummary reports the driver pool state.
func (e *Engine) FleetSummary() assign.Summary {
	return e.pool.Summary()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
