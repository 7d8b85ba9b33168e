// Package telemetry ingests driver progress reports published over MQTT and
// moves shipments and routes through the delivery lifecycle.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/josepaz/rumbo/config"
	"github.com/josepaz/rumbo/core/assign"
	"github.com/josepaz/rumbo/core/driverstatus"
	"github.com/josepaz/rumbo/core/model"
	"github.com/josepaz/rumbo/infra/logger"
	infmqtt "github.com/josepaz/rumbo/infra/mqtt"
	"github.com/josepaz/rumbo/infra/store"
)

const (
	EventStart          = "start"
	EventStopCompleted  = "stop_completed"
	EventRouteCompleted = "route_completed"
	EventProblem        = "problem"
)

// Manager subscribes to the driver progress topic and applies each report to
// the store, the driver pool and the live status board.
type Manager struct {
	cfg    config.TelemetryConfig
	cli    paho.Client
	st     store.Store
	pool   assign.Pool
	status driverstatus.Store
	log    logger.Logger

	events    *prometheus.CounterVec
	rejected  prometheus.Counter
	lastEvent prometheus.Gauge
}

// progressReport is the payload drivers publish to <prefix>/<driver_id>.
type progressReport struct {
	DriverID   string `json:"driver_id"`
	RouteID    string `json:"route_id"`
	ShipmentID string `json:"shipment_id"`
	Event      string `json:"event"`
	TS         *int64 `json:"ts"`
}

// NewManager connects to MQTT and prepares progress ingestion.
func NewManager(mqttCfg infmqtt.Config, cfg config.TelemetryConfig, st store.Store, pool assign.Pool, status driverstatus.Store) (*Manager, error) {
	opts, err := infmqtt.NewClientOptions(mqttCfg)
	if err != nil {
		return nil, err
	}
	id := mqttCfg.ClientID
	if id != "" {
		id += "-telemetry"
	} else {
		id = "telemetry-" + uuid.NewString()
	}
	opts.SetClientID(id)
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	m := newManager(cfg, st, pool, status)
	m.cli = cli
	prometheus.MustRegister(m.events, m.rejected, m.lastEvent)
	return m, nil
}

func newManager(cfg config.TelemetryConfig, st store.Store, pool assign.Pool, status driverstatus.Store) *Manager {
	return &Manager{
		cfg:    cfg,
		st:     st,
		pool:   pool,
		status: status,
		log:    logger.New("telemetry"),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telemetry_events_total",
			Help: "Driver progress reports processed, by event type",
		}, []string{"event"}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "telemetry_rejected_total",
			Help: "Driver progress reports dropped as malformed or illegal",
		}),
		lastEvent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "telemetry_last_event_timestamp_seconds",
			Help: "Unix timestamp of the last processed progress report",
		}),
	}
}

// Start subscribes and blocks until the context is done.
func (m *Manager) Start(ctx context.Context) {
	topic := strings.TrimSuffix(m.cfg.TopicPrefix, "/") + "/+"
	if token := m.cli.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		if err := m.handle(ctx, msg.Topic(), msg.Payload()); err != nil {
			m.rejected.Inc()
			m.log.Errorf("progress report on %s: %v", msg.Topic(), err)
		}
	}); token.Wait() && token.Error() != nil {
		m.log.Errorf("subscribe %s: %v", topic, token.Error())
	}
	<-ctx.Done()
	if m.cli.IsConnected() {
		m.cli.Disconnect(250)
	}
}

func (m *Manager) handle(ctx context.Context, topic string, payload []byte) error {
	var rep progressReport
	if err := json.Unmarshal(payload, &rep); err != nil {
		return err
	}
	if rep.DriverID == "" {
		rep.DriverID = extractID(topic)
	}
	if rep.DriverID == "" {
		return fmt.Errorf("report carries no driver id")
	}
	ts := time.Now()
	if rep.TS != nil {
		ts = time.Unix(*rep.TS, 0)
	}

	var err error
	switch rep.Event {
	case EventStart:
		err = m.routeStarted(ctx, rep)
	case EventStopCompleted:
		err = m.shipmentTo(ctx, rep.ShipmentID, model.StateDelivered)
	case EventRouteCompleted:
		err = m.routeCompleted(ctx, rep)
	case EventProblem:
		err = m.shipmentTo(ctx, rep.ShipmentID, model.StateProblem)
	default:
		return fmt.Errorf("unknown event %q", rep.Event)
	}
	if err != nil {
		return err
	}

	if m.status != nil {
		m.status.RecordProgress(rep.DriverID, driverstatus.Progress{
			Event:      rep.Event,
			RouteID:    rep.RouteID,
			ShipmentID: rep.ShipmentID,
			Timestamp:  ts,
		})
	}
	m.events.WithLabelValues(rep.Event).Inc()
	m.lastEvent.SetToCurrentTime()
	return nil
}

// routeStarted moves the route to in_progress and its shipments to
// in_transit.
func (m *Manager) routeStarted(ctx context.Context, rep progressReport) error {
	r, err := m.st.Route(ctx, rep.RouteID)
	if err != nil {
		return fmt.Errorf("load route %s: %w", rep.RouteID, err)
	}
	r.State = model.RouteInProgress
	if err := m.st.SaveRoute(ctx, r); err != nil {
		return err
	}
	for _, stop := range r.Stops {
		if err := m.shipmentTo(ctx, stop.ShipmentID, model.StateInTransit); err != nil {
			m.log.Warnf("stop %s: %v", stop.ShipmentID, err)
		}
	}
	return nil
}

// routeCompleted closes the route and returns its driver to the pool.
func (m *Manager) routeCompleted(ctx context.Context, rep progressReport) error {
	r, err := m.st.Route(ctx, rep.RouteID)
	if err != nil {
		return fmt.Errorf("load route %s: %w", rep.RouteID, err)
	}
	r.State = model.RouteCompleted
	if err := m.st.SaveRoute(ctx, r); err != nil {
		return err
	}
	if err := m.pool.Release(rep.DriverID); err != nil {
		m.log.Warnf("release driver %s: %v", rep.DriverID, err)
	}
	return nil
}

func (m *Manager) shipmentTo(ctx context.Context, id string, next model.ShipmentState) error {
	if id == "" {
		return fmt.Errorf("report carries no shipment id")
	}
	s, err := m.st.Shipment(ctx, id)
	if err != nil {
		return fmt.Errorf("load shipment %s: %w", id, err)
	}
	if s.State == next {
		return nil
	}
	if !s.State.CanTransition(next) {
		return fmt.Errorf("shipment %s cannot move %s -> %s", id, s.State, next)
	}
	s.State = next
	return m.st.SaveShipment(ctx, s)
}

func extractID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
