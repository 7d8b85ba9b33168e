package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/josepaz/rumbo/core/metrics"
)

// PromSink records optimization events in Prometheus metrics.
type PromSink struct {
	routes      *prometheus.CounterVec
	shipments   *prometheus.CounterVec
	skipped     prometheus.Counter
	runDuration prometheus.Histogram
	queueDepth  prometheus.Gauge
	assignments *prometheus.CounterVec
}

// NewPromSink registers optimization metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	routes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_routes_created_total",
		Help: "Total number of routes created",
	}, []string{"zone", "vehicle", "urgent"})
	shipments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_shipments_routed_total",
		Help: "Total number of shipments placed on routes",
	}, []string{"zone", "vehicle"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_groups_skipped_total",
		Help: "Groups skipped because no driver was available",
	})
	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_run_duration_seconds",
		Help:    "Wall time of optimization runs",
		Buckets: prometheus.DefBuckets,
	})
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimizer_queue_pending",
		Help: "Shipments waiting in the pending queue",
	})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_driver_assignments_total",
		Help: "Driver assignment attempts",
	}, []string{"vehicle", "assigned"})

	collectors := []prometheus.Collector{routes, shipments, skipped, runDuration, queueDepth, assignments}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				collectors[i] = are.ExistingCollector
			} else {
				return nil, err
			}
		}
	}
	routes = collectors[0].(*prometheus.CounterVec)
	shipments = collectors[1].(*prometheus.CounterVec)
	skipped = collectors[2].(prometheus.Counter)
	runDuration = collectors[3].(prometheus.Histogram)
	queueDepth = collectors[4].(prometheus.Gauge)
	assignments = collectors[5].(*prometheus.CounterVec)

	return &PromSink{
		routes:      routes,
		shipments:   shipments,
		skipped:     skipped,
		runDuration: runDuration,
		queueDepth:  queueDepth,
		assignments: assignments,
	}, nil
}

// RecordOptimizationResult observes run duration and skip counters.
func (s *PromSink) RecordOptimizationResult(res coremetrics.OptimizationResult) error {
	s.runDuration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	s.skipped.Add(float64(res.GroupsSkipped))
	s.queueDepth.Set(float64(res.ShipmentsPending))
	return nil
}

// RecordRoute increments route and shipment counters.
func (s *PromSink) RecordRoute(ev coremetrics.RouteEvent) error {
	urgent := strconv.FormatBool(ev.Urgent)
	s.routes.WithLabelValues(ev.Zone, string(ev.Vehicle), urgent).Inc()
	s.shipments.WithLabelValues(ev.Zone, string(ev.Vehicle)).Add(float64(ev.Stops))
	return nil
}

// RecordQueueDepth sets the pending gauge.
func (s *PromSink) RecordQueueDepth(ev coremetrics.QueueDepthEvent) error {
	s.queueDepth.Set(float64(ev.Pending))
	return nil
}

// RecordAssignment increments the assignment counter.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(string(ev.Vehicle), strconv.FormatBool(ev.Assigned)).Inc()
	return nil
}
