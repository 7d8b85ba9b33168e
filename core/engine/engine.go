// Package engine orchestrates the optimization pipeline: queued shipments are
// grouped, packed into routes, bound to drivers, scheduled inside operating
// windows and re-estimated. Runs are serialized; the driver pool and the store
// are the only shared mutable state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/josepaz/rumbo/core/assign"
	"github.com/josepaz/rumbo/core/conditions"
	"github.com/josepaz/rumbo/core/estimate"
	"github.com/josepaz/rumbo/core/events"
	"github.com/josepaz/rumbo/core/geo"
	"github.com/josepaz/rumbo/core/logger"
	"github.com/josepaz/rumbo/core/metrics"
	"github.com/josepaz/rumbo/core/model"
	"github.com/josepaz/rumbo/core/notify"
	"github.com/josepaz/rumbo/core/queue"
	"github.com/josepaz/rumbo/core/routing"
	"github.com/josepaz/rumbo/core/schedule"
	"github.com/josepaz/rumbo/core/zone"
	"github.com/josepaz/rumbo/infra/store"
	"github.com/josepaz/rumbo/internal/eventbus"
)

// ErrRunInProgress is returned when an optimization run is already executing.
// Callers should retry after the current run finishes.
var ErrRunInProgress = errors.New("optimization run already in progress")

// Engine drives the optimization pipeline.
type Engine struct {
	store     store.Store
	queue     *queue.Queue
	pool      assign.Pool
	builder   routing.Builder
	estimator *estimate.Estimator
	windows   schedule.Windows
	notifier  *notify.Notifier
	metrics   metrics.MetricsSink
	bus       eventbus.EventBus
	logger    logger.Logger

	// Weather reports the current condition for preliminary estimates.
	// Defaults to clear skies when nil.
	weather    func() string
	trackingID func() string
	now        func() time.Time

	runMu sync.Mutex
}

// Config carries the engine's collaborators. Store, Pool and Logger are
// required; everything else has a usable default.
type Config struct {
	Store      store.Store
	Pool       assign.Pool
	Logger     logger.Logger
	Conditions conditions.Config
	Windows    schedule.Windows
	Builder    routing.Builder
	Notifier   *notify.Notifier
	Metrics    metrics.MetricsSink
	Bus        eventbus.EventBus
	Weather    func() string
	// TrackingID generates customer-facing shipment identifiers. Defaults
	// to SequentialTracking.
	TrackingID func() string
}

// New creates an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil || cfg.Pool == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("engine: nil parameter provided to New")
	}
	cond := conditions.New(cfg.Conditions)
	if cfg.Windows == nil {
		cfg.Windows = schedule.Default()
	}
	if cfg.Builder == nil {
		cfg.Builder = routing.NewGreedyBuilder(cond)
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.New(cfg.Logger, notify.NopSink{})
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NopSink{}
	}
	if cfg.Weather == nil {
		cfg.Weather = func() string { return "clear" }
	}
	if cfg.TrackingID == nil {
		cfg.TrackingID = SequentialTracking()
	}
	return &Engine{
		store:      cfg.Store,
		queue:      queue.New(),
		pool:       cfg.Pool,
		builder:    cfg.Builder,
		estimator:  estimate.New(cond),
		windows:    cfg.Windows,
		notifier:   cfg.Notifier,
		metrics:    cfg.Metrics,
		bus:        cfg.Bus,
		logger:     cfg.Logger,
		weather:    cfg.Weather,
		trackingID: cfg.TrackingID,
		now:        time.Now,
	}, nil
}

// CreateShipmentRequest is the raw customer declaration.
type CreateShipmentRequest struct {
	SenderName      string  `json:"sender_name"`
	SenderCity      string  `json:"sender_city"`
	RecipientName   string  `json:"recipient_name"`
	RecipientEmail  string  `json:"recipient_email"`
	RecipientPhone  string  `json:"recipient_phone"`
	RecipientCity   string  `json:"recipient_city"`
	RecipientRegion string  `json:"recipient_region"`
	Service         string  `json:"service"`
	WeightDeclared  string  `json:"weight"`
	Dimensions      string  `json:"dimensions"`
	DeclaredValueQ  float64 `json:"declared_value_q"`
}

// CreateShipment registers a shipment: parses the declaration, resolves
// geography, picks the vehicle class, prices the service and produces the
// preliminary estimate. The shipment enters the pending queue.
func (e *Engine) CreateShipment(ctx context.Context, req CreateShipmentRequest) (model.Shipment, error) {
	now := e.now()
	tier := model.ParseServiceTier(req.Service)
	weight := model.ParseWeight(req.WeightDeclared)
	volume := model.ParseDimensions(req.Dimensions)

	origin := geo.HubGuatemala
	if req.SenderCity != "" {
		origin = geo.Geocode(req.SenderCity)
	}
	dest := geo.Geocode(req.RecipientCity)

	s := model.Shipment{
		ID: e.trackingID(),
		Sender: model.Address{
			Name: req.SenderName,
			City: req.SenderCity,
		},
		Recipient: model.Address{
			Name:   req.RecipientName,
			Email:  req.RecipientEmail,
			Phone:  req.RecipientPhone,
			City:   req.RecipientCity,
			Region: req.RecipientRegion,
		},
		Package: model.Package{
			WeightKg:     weight,
			VolumeM3:     volume,
			DeclaredQ:    req.DeclaredValueQ,
			ServiceClass: req.Service,
		},
		Tier:      tier,
		Origin:    origin,
		Dest:      dest,
		Zone:      zone.Classify(req.RecipientCity, req.RecipientRegion),
		Vehicle:   model.SelectVehicleClass(tier, weight, volume),
		Priority:  tier.PriorityRank(),
		QuoteQ:    Quote(tier, weight),
		State:     model.StatePending,
		CreatedAt: now,
	}

	prelim := e.estimator.Preliminary(&s, e.weather())
	s.AppendEstimate(prelim)

	if err := e.store.SaveShipment(ctx, s); err != nil {
		return model.Shipment{}, fmt.Errorf("save shipment: %w", err)
	}
	e.queue.Push(s)

	if e.bus != nil {
		e.bus.Publish(events.ShipmentCreatedEvent{Shipment: s})
		e.bus.Publish(events.EstimateEvent{ShipmentID: s.ID, Tier: s.Tier, Estimate: prelim})
	}
	e.notifier.Emit(ctx, notify.ShipmentEstimate(&s, prelim))
	e.logger.Infof("shipment %s created: %s to %s, %s, %.1f kg", s.ID, tier, s.Recipient.City, s.Vehicle, weight)
	return s, nil
}

// RunSummary reports what one optimization run produced.
type RunSummary struct {
	RunID            string        `json:"run_id"`
	RoutesCreated    int           `json:"routes_created"`
	ShipmentsRouted  int           `json:"shipments_routed"`
	GroupsConsidered int           `json:"groups_considered"`
	GroupsSkipped    int           `json:"groups_skipped"`
	Pending          int           `json:"pending"`
	Routes           []model.Route `json:"routes,omitempty"`
}

// Optimize executes one optimization run. Only one run executes at a time;
// a concurrent call fails fast with ErrRunInProgress. A failing group is
// logged and skipped without aborting the run. Cancellation is honored
// between groups and before the final write-back; once the write-back starts
// it completes atomically.
func (e *Engine) Optimize(ctx context.Context) (RunSummary, error) {
	if !e.runMu.TryLock() {
		return RunSummary{}, ErrRunInProgress
	}
	defer e.runMu.Unlock()

	started := e.now()
	runID := "run-" + strings.ToLower(uuid.NewString()[:8])
	sum := RunSummary{RunID: runID}

	pending, err := e.store.ShipmentsByState(ctx, model.StatePending)
	if err != nil {
		return sum, fmt.Errorf("load pending: %w", err)
	}
	for _, s := range pending {
		e.queue.Push(s)
	}

	groups, remaining := queue.AnalyzeAndGroup(e.queue.Pending())
	sum.GroupsConsidered = len(groups)
	e.logger.Infof("run %s: %d pending, %d groups ready, %d waiting", runID, len(pending), len(groups), len(remaining))

	var (
		builtRoutes    []model.Route
		updated        []model.Shipment
		assignedDriver []string
	)
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			e.releaseDrivers(assignedDriver)
			return sum, err
		}
		routes, shipments, driverIDs, err := e.optimizeGroup(ctx, g)
		if err != nil {
			if errors.Is(err, assign.ErrNoDriver) {
				sum.GroupsSkipped++
				e.logger.Warnf("run %s: group %s skipped: no %s driver available", runID, g.Key, g.Vehicle)
			} else {
				sum.GroupsSkipped++
				e.logger.Errorf("run %s: group %s failed: %v", runID, g.Key, err)
			}
			continue
		}
		builtRoutes = append(builtRoutes, routes...)
		updated = append(updated, shipments...)
		assignedDriver = append(assignedDriver, driverIDs...)
	}

	if err := ctx.Err(); err != nil {
		e.releaseDrivers(assignedDriver)
		return sum, err
	}
	if err := e.store.ApplyRun(ctx, builtRoutes, updated); err != nil {
		e.releaseDrivers(assignedDriver)
		return sum, fmt.Errorf("write back run: %w", err)
	}

	routedIDs := make([]string, 0, len(updated))
	shipmentsByID := make(map[string]*model.Shipment, len(updated))
	for i := range updated {
		routedIDs = append(routedIDs, updated[i].ID)
		shipmentsByID[updated[i].ID] = &updated[i]
	}
	e.queue.Remove(routedIDs...)

	sum.RoutesCreated = len(builtRoutes)
	sum.ShipmentsRouted = len(updated)
	sum.Pending = e.queue.Len()
	sum.Routes = builtRoutes

	e.emitRunResults(ctx, runID, started, sum, builtRoutes, shipmentsByID)
	return sum, nil
}

// optimizeGroup turns one group into routes with drivers, schedules and
// refreshed estimates. On any error the drivers already taken for this group
// are released and the group's shipments stay pending.
func (e *Engine) optimizeGroup(ctx context.Context, g queue.Group) ([]model.Route, []model.Shipment, []string, error) {
	var (
		routes    []model.Route
		shipments []model.Shipment
		driverIDs []string
	)
	fail := func(err error) ([]model.Route, []model.Shipment, []string, error) {
		e.releaseDrivers(driverIDs)
		return nil, nil, nil, err
	}

	for _, members := range queue.SplitIntoSubRoutes(g) {
		for i := range members {
			members[i].State = model.StateGrouped
		}
		now := e.now()
		driver, err := e.pool.Assign(g.Vehicle, g.Zone, now)
		if aerr := e.recordAssignment(g, driver, err); aerr != nil {
			e.logger.Debugf("assignment metric: %v", aerr)
		}
		if err != nil {
			return fail(err)
		}
		driverIDs = append(driverIDs, driver.ID)

		ptrs := make([]*model.Shipment, len(members))
		for i := range members {
			ptrs[i] = &members[i]
		}
		win := e.windows.ForGroup(ptrs)
		startAt := now
		state := model.RouteReadyToStart
		if !schedule.CanStartNow(now, win) {
			startAt = schedule.NextValidStart(now, win)
			state = model.RouteProgrammed
		}

		route, err := e.builder.Build(members, driver, g.Zone, geo.HubGuatemala, startAt)
		if err != nil {
			return fail(fmt.Errorf("build route: %w", err))
		}
		route.Window = win
		route.State = state

		// Walk stops accumulating traffic-adjusted hours so each shipment's
		// optimized estimate reflects its position in the route.
		accumulated := 0.0
		byID := make(map[string]*model.Shipment, len(members))
		for i := range members {
			byID[members[i].ID] = &members[i]
			members[i].State = model.StateRouted
		}
		for _, stop := range route.Stops {
			s := byID[stop.ShipmentID]
			accumulated += stop.AdjustedHours
			est := e.estimator.Optimized(s, &route, stop, accumulated)

			s.State = model.StateOptimizedRefined
			s.RouteID = route.ID
			s.DriverID = driver.ID
			s.AppendEstimate(est)
		}

		routes = append(routes, route)
		shipments = append(shipments, members...)
	}
	return routes, shipments, driverIDs, ctx.Err()
}

func (e *Engine) recordAssignment(g queue.Group, driver model.DriverSnapshot, err error) error {
	rec, ok := e.metrics.(metrics.AssignmentRecorder)
	if !ok {
		return nil
	}
	return rec.RecordAssignment(metrics.AssignmentEvent{
		DriverID: driver.ID,
		Vehicle:  g.Vehicle,
		Zone:     g.Zone,
		Assigned: err == nil,
		Time:     e.now(),
	})
}

func (e *Engine) releaseDrivers(ids []string) {
	for _, id := range ids {
		if err := e.pool.Release(id); err != nil {
			e.logger.Errorf("release driver %s: %v", id, err)
		}
	}
}

// emitRunResults publishes notifications, bus events and metrics for a
// committed run. Failures here never fail the run.
func (e *Engine) emitRunResults(ctx context.Context, runID string, started time.Time, sum RunSummary, routes []model.Route, shipments map[string]*model.Shipment) {
	finished := e.now()

	improvements := 0.0
	counted := 0
	for _, r := range routes {
		urgent := r.HasUrgent(shipments)
		improvements += r.Stats.ImprovementPct
		counted++

		e.notifier.Emit(ctx, notify.DriverRoute(r, urgent))
		if e.bus != nil {
			e.bus.Publish(events.RouteBuiltEvent{Route: r, Urgent: urgent})
		}
		for _, stop := range r.Stops {
			s := shipments[stop.ShipmentID]
			if s == nil || s.Current == nil {
				continue
			}
			e.notifier.Emit(ctx, notify.ShipmentEstimate(s, *s.Current))
			if e.bus != nil {
				e.bus.Publish(events.EstimateEvent{ShipmentID: s.ID, Tier: s.Tier, Estimate: *s.Current})
			}
		}
	}

	avgImprovement := 0.0
	if counted > 0 {
		avgImprovement = improvements / float64(counted)
	}
	res := metrics.OptimizationResult{
		RunID:             runID,
		StartedAt:         started,
		FinishedAt:        finished,
		GroupsConsidered:  sum.GroupsConsidered,
		GroupsSkipped:     sum.GroupsSkipped,
		RoutesCreated:     sum.RoutesCreated,
		ShipmentsRouted:   sum.ShipmentsRouted,
		ShipmentsPending:  sum.Pending,
		AvgImprovementPct: avgImprovement,
	}
	if err := e.metrics.RecordOptimizationResult(res); err != nil {
		e.logger.Errorf("record run metrics: %v", err)
	}
	if e.bus != nil {
		e.bus.Publish(events.RunCompletedEvent{
			RunID:           runID,
			RoutesCreated:   sum.RoutesCreated,
			ShipmentsRouted: sum.ShipmentsRouted,
			GroupsSkipped:   sum.GroupsSkipped,
			Pending:         sum.Pending,
			StartedAt:       started,
			FinishedAt:      finished,
		})
	}
	e.logger.Infof("run %s: %d routes, %d shipments routed, %d skipped, %d pending",
		runID, sum.RoutesCreated, sum.ShipmentsRouted, sum.GroupsSkipped, sum.Pending)
}

// QueueDepth reports the number of shipments waiting to be routed.
func (e *Engine) QueueDepth() int { return e.queue.Len() }

// PendingShipments lists the queued shipments oldest first.
func (e *Engine) PendingShipments() []model.Shipment { return e.queue.Pending() }

// SequentialTracking returns a tracking id generator producing PKG-prefixed
// sequential identifiers. The sequence is seeded from the wall clock so ids
// stay unique across restarts of a shared store.
func SequentialTracking() func() string {
	var seq atomic.Int64
	seq.Store(time.Now().UnixMilli())
	return func() string {
		return fmt.Sprintf("PKG%d", seq.Add(1))
	}
}
