package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/josepaz/rumbo/core/metrics"
	"github.com/josepaz/rumbo/infra/logger"
)

// InfluxSink writes optimization events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordOptimizationResult writes the run summary as line protocol.
func (s *InfluxSink) RecordOptimizationResult(res coremetrics.OptimizationResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimization_run").
		AddTag("run_id", res.RunID).
		AddTag("component", "engine").
		AddField("groups_considered", res.GroupsConsidered).
		AddField("groups_skipped", res.GroupsSkipped).
		AddField("routes_created", res.RoutesCreated).
		AddField("shipments_routed", res.ShipmentsRouted).
		AddField("shipments_pending", res.ShipmentsPending).
		AddField("avg_improvement_pct", round3(res.AvgImprovementPct)).
		AddField("duration_ms", round3(res.FinishedAt.Sub(res.StartedAt).Seconds()*1000)).
		SetTime(res.FinishedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRoute writes one built route.
func (s *InfluxSink) RecordRoute(ev coremetrics.RouteEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("route_created").
		AddTag("route_id", ev.RouteID).
		AddTag("zone", ev.Zone).
		AddTag("vehicle", string(ev.Vehicle)).
		AddTag("driver_id", ev.DriverID).
		AddTag("urgent", strconv.FormatBool(ev.Urgent)).
		AddTag("component", "engine").
		AddField("stops", ev.Stops).
		AddField("distance_km", round3(ev.DistanceKm)).
		AddField("total_hours", round3(ev.TotalHours)).
		AddField("efficiency_pct", round3(ev.Efficiency)).
		AddField("improvement_pct", round3(ev.Improvement)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEstimate writes one emitted estimate.
func (s *InfluxSink) RecordEstimate(ev coremetrics.EstimateEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("delivery_estimate").
		AddTag("shipment_id", ev.ShipmentID).
		AddTag("kind", string(ev.Kind)).
		AddTag("tier", string(ev.Tier)).
		AddTag("component", "estimator").
		AddField("time_hours", round3(ev.TimeHours)).
		AddField("confidence", round3(ev.Confidence)).
		AddField("improvement_hours", round3(ev.Improvement)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordQueueDepth writes a queue snapshot.
func (s *InfluxSink) RecordQueueDepth(ev coremetrics.QueueDepthEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("queue_depth").
		AddTag("component", "queue").
		AddField("pending", ev.Pending).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAssignment writes a driver assignment attempt.
func (s *InfluxSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("driver_assignment").
		AddTag("route_id", ev.RouteID).
		AddTag("vehicle", string(ev.Vehicle)).
		AddTag("zone", ev.Zone).
		AddTag("assigned", strconv.FormatBool(ev.Assigned)).
		AddTag("component", "assign")
	if ev.DriverID != "" {
		p = p.AddTag("driver_id", ev.DriverID)
	}
	p = p.AddField("attempts", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
