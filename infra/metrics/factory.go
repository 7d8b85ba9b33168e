package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/josepaz/rumbo/core/factory"
	coremetrics "github.com/josepaz/rumbo/core/metrics"
	eco "github.com/josepaz/rumbo/core/metrics/eco"
	"github.com/josepaz/rumbo/infra/kpi"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	_ = coremetrics.RegisterMetricsSink("eco", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			EmissionFactor float64 `json:"emission_factor"`
			DBPath         string  `json:"db_path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.EmissionFactor == 0 {
			c.EmissionFactor = 192 // grams CO2 per km, average light vehicle
		}
		var store eco.Store = eco.NewMemoryStore()
		if c.DBPath != "" {
			s, err := kpi.NewSQLiteStore(c.DBPath)
			if err != nil {
				return nil, err
			}
			store = s
		}
		return NewEcoSink(store, c.EmissionFactor, prometheus.DefaultRegisterer), nil
	})
}
