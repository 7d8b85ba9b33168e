// Package store persists shipments and routes. Two implementations are
// provided: an in-memory store for tests and single-node runs, and a SQLite
// store for durable deployments. Optimization results are committed through
// ApplyRun, which is all-or-nothing: either every route and shipment update
// lands, or none do.
package store

import (
	"context"
	"errors"

	"github.com/josepaz/rumbo/core/model"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary of the engine.
type Store interface {
	SaveShipment(ctx context.Context, s model.Shipment) error
	Shipment(ctx context.Context, id string) (model.Shipment, error)
	// ShipmentsByState lists shipments in any of the given states. With no
	// states it lists everything.
	ShipmentsByState(ctx context.Context, states ...model.ShipmentState) ([]model.Shipment, error)

	SaveRoute(ctx context.Context, r model.Route) error
	Route(ctx context.Context, id string) (model.Route, error)
	// ActiveRoutes lists routes that have not finished yet.
	ActiveRoutes(ctx context.Context) ([]model.Route, error)
	// Routes lists every stored route, completed ones included.
	Routes(ctx context.Context) ([]model.Route, error)

	// ApplyRun commits the output of one optimization run atomically.
	ApplyRun(ctx context.Context, routes []model.Route, shipments []model.Shipment) error

	Close() error
}
