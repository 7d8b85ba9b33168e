package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/josepaz/rumbo/core/metrics"
	eco "github.com/josepaz/rumbo/core/metrics/eco"
)

// EcoSink derives per-driver distance KPIs from built routes. Saved distance
// is the share of the driven distance attributed to consolidation, taken from
// the route's improvement percentage.
type EcoSink struct {
	store  eco.Store
	factor float64
	driven *prometheus.GaugeVec
	ratio  *prometheus.GaugeVec
	co2    *prometheus.GaugeVec
}

// NewEcoSink creates a sink with Prometheus gauges registered on reg. factor
// is grams of CO2 per avoided kilometre.
func NewEcoSink(store eco.Store, factor float64, reg prometheus.Registerer) *EcoSink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	driven := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "driver_driven_km",
		Help: "Daily routed distance per driver",
	}, []string{"driver_id", "day"})
	ratio := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "driver_km_saved_ratio",
		Help: "Daily ratio of saved to driven distance",
	}, []string{"driver_id", "day"})
	co2 := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "driver_co2_avoided_grams",
		Help: "Daily CO2 avoided per driver",
	}, []string{"driver_id", "day"})
	reg.MustRegister(driven, ratio, co2)
	return &EcoSink{store: store, factor: factor, driven: driven, ratio: ratio, co2: co2}
}

// RecordOptimizationResult implements MetricsSink. Run summaries carry no
// per-driver distance, so there is nothing to record here.
func (s *EcoSink) RecordOptimizationResult(coremetrics.OptimizationResult) error {
	return nil
}

// RecordRoute updates the driver's daily KPIs from the built route.
func (s *EcoSink) RecordRoute(ev coremetrics.RouteEvent) error {
	rec := eco.Record{
		DriverID: ev.DriverID,
		Date:     ev.Time,
		DrivenKm: ev.DistanceKm,
		SavedKm:  ev.DistanceKm * ev.Improvement / 100,
	}
	if err := s.store.Add(rec); err != nil {
		return err
	}
	day := eco.Day(rec.Date).Format("2006-01-02")
	records, _ := s.store.Query(ev.DriverID, rec.Date, rec.Date)
	if len(records) > 0 {
		rr := records[0]
		s.driven.WithLabelValues(ev.DriverID, day).Set(rr.DrivenKm)
		s.ratio.WithLabelValues(ev.DriverID, day).Set(rr.SavingsRatio())
		s.co2.WithLabelValues(ev.DriverID, day).Set(rr.CO2Avoided(s.factor))
	}
	return nil
}
