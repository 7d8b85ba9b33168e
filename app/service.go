// Package app wires configuration into a running service: store, driver
// pool, optimization engine, HTTP API, metrics and notifications.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apiroutes "github.com/josepaz/rumbo/api/routes"
	apishipments "github.com/josepaz/rumbo/api/shipments"
	apistats "github.com/josepaz/rumbo/api/stats"
	"github.com/josepaz/rumbo/auth"
	"github.com/josepaz/rumbo/config"
	"github.com/josepaz/rumbo/connectors"
	"github.com/josepaz/rumbo/connectors/clients/weatherfeed"
	"github.com/josepaz/rumbo/core/assign"
	"github.com/josepaz/rumbo/core/driverstatus"
	"github.com/josepaz/rumbo/core/engine"
	coremetrics "github.com/josepaz/rumbo/core/metrics"
	"github.com/josepaz/rumbo/core/monitoring"
	"github.com/josepaz/rumbo/core/notify"
	"github.com/josepaz/rumbo/infra/logger"
	"github.com/josepaz/rumbo/infra/metrics"
	inframonitoring "github.com/josepaz/rumbo/infra/monitoring"
	"github.com/josepaz/rumbo/infra/mqtt"
	"github.com/josepaz/rumbo/infra/store"
	"github.com/josepaz/rumbo/infra/telemetry"
	"github.com/josepaz/rumbo/internal/eventbus"
)

// Service orchestrates the optimization engine, the HTTP API and the
// periodic run loop.
type Service struct {
	Engine *engine.Engine

	cfg       *config.Config
	store     store.Store
	publisher mqtt.Publisher
	bus       eventbus.EventBus
	sink      coremetrics.MetricsSink
	pool      assign.Pool
	status    driverstatus.Store
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := inframonitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	var st store.Store
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		st = s
	default:
		st = store.NewMemoryStore()
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var (
		publisher mqtt.Publisher
		sinks     []notify.Sink
	)
	if cfg.Notify.Enabled {
		client, err := mqtt.NewPahoClient(cfg.Notify.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		publisher = client
		sinks = append(sinks, mqtt.NewNotifySink(client))
	}

	weather, err := buildWeatherSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("weather source: %w", err)
	}

	bus := eventbus.New()
	pool := assign.NewMemoryPool(cfg.Fleet.Roster())
	eng, err := engine.New(engine.Config{
		Store:      st,
		Pool:       pool,
		Logger:     logger.New("engine"),
		Conditions: cfg.Conditions,
		Windows:    cfg.Windows.ToWindows(),
		Notifier:   notify.New(logger.New("notify"), sinks...),
		Metrics:    sink,
		Bus:        bus,
		Weather: func() string {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			cond, err := weather.Current(ctx)
			if err != nil {
				logg.Warnf("weather feed unavailable, assuming %s: %v", cfg.Engine.Weather, err)
				return cfg.Engine.Weather
			}
			return cond
		},
	})
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Service{
		Engine:    eng,
		cfg:       cfg,
		store:     st,
		publisher: publisher,
		bus:       bus,
		sink:      sink,
		pool:      pool,
		status:    driverstatus.NewMemoryStore(),
		log:       logg,
	}, nil
}

func buildWeatherSource(cfg *config.Config) (connectors.WeatherSource, error) {
	if cfg.Weather.Source != "feed" {
		return connectors.Static(cfg.Engine.Weather), nil
	}
	opts := []weatherfeed.Option{}
	if cfg.Weather.TimeoutSeconds > 0 {
		opts = append(opts, weatherfeed.WithTimeout(time.Duration(cfg.Weather.TimeoutSeconds)*time.Second))
	}
	if cfg.Weather.Auth != nil {
		opts = append(opts, weatherfeed.WithAuth(auth.NewClientCred(*cfg.Weather.Auth)))
	}
	return weatherfeed.New(cfg.Weather.URL, opts...)
}

// Handler returns the API mux.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/shipments", apishipments.NewCreateHandler(s.Engine))
	mux.Handle("/api/shipments/estimate", apishipments.NewEstimateHandler(s.Engine))
	mux.Handle("/api/routes/active", apiroutes.NewActiveHandler(s.Engine))
	mux.Handle("/api/optimize", apiroutes.NewOptimizeHandler(s.Engine))
	mux.Handle("/api/stats", apistats.NewStatsHandler(s.Engine))
	mux.Handle("/api/drivers", apistats.NewDriversHandler(s.Engine))
	mux.Handle("/api/drivers/live", apistats.NewDriversLiveHandler(s.status))
	mux.Handle("/api/queue", apistats.NewQueueHandler(s.Engine))
	return mux
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	go func() {
		s.log.Infof("api listening on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("api server: %v", err)
		}
	}()

	if addr := s.cfg.Server.MetricsAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	if s.cfg.Telemetry.Enabled {
		mgr, err := telemetry.NewManager(s.cfg.Notify.MQTT, s.cfg.Telemetry, s.store, s.pool, s.status)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		go mgr.Start(ctx)
		go s.watchDriverFeed(ctx)
	}

	if interval := s.cfg.Engine.OptimizeInterval(); interval > 0 {
		go s.optimizeLoop(ctx, interval)
	}

	<-ctx.Done()
	return nil
}

// watchDriverFeed mirrors incoming driver progress reports into the service
// log so road activity is visible without querying the live board.
func (s *Service) watchDriverFeed(ctx context.Context) {
	feed := s.status.Watch()
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-feed:
			if !ok {
				return
			}
			s.log.Debugf("driver %s reported %s (route %s)", r.DriverID, r.Progress.Event, r.Progress.RouteID)
		}
	}
}

func (s *Service) optimizeLoop(ctx context.Context, interval time.Duration) {
	defer monitoring.Recover()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Engine.Optimize(ctx); err != nil {
				s.log.Errorf("optimization run: %v", err)
				monitoring.CaptureException(err, map[string]string{"component": "optimize_loop"})
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	s.bus.Close()
	monitoring.Flush(2 * time.Second)
	return s.store.Close()
}
