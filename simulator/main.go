// Command simulator generates demand against a running service: it posts
// random shipment declarations to the HTTP API and, optionally, replays the
// resulting routes as driver progress reports over MQTT.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	demand := NewDemand(cfg.APIURL, cfg.Seed)
	wg.Add(1)
	go func() {
		defer wg.Done()
		demand.Run(ctx, cfg.DemandInterval, cfg.Count)
	}()

	if cfg.Drivers {
		sim, err := NewDriverSim(cfg.APIURL, cfg.Broker, cfg.TopicPrefix, cfg.StopDelay)
		if err != nil {
			log.Fatalf("driver sim: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim.Run(ctx, cfg.PollInterval)
		}()
	}

	wg.Wait()
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.APIURL, "api-url", "http://localhost:8080", "service API base URL")
	flag.StringVar(&cfg.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.DurationVar(&cfg.DemandInterval, "demand-interval", 2*time.Second, "delay between generated shipments")
	flag.IntVar(&cfg.Count, "count", 0, "stop after this many shipments (0 runs until interrupted)")
	flag.BoolVar(&cfg.Drivers, "drivers", false, "replay ready routes as driver telemetry")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", 10*time.Second, "active route poll interval")
	flag.DurationVar(&cfg.StopDelay, "stop-delay", 3*time.Second, "delay between simulated stops")
	flag.StringVar(&cfg.TopicPrefix, "topic-prefix", "rumbo/telemetry/driver", "driver telemetry topic prefix")
	flag.Int64Var(&cfg.Seed, "seed", 0, "demand RNG seed (0 uses the clock)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	return cfg
}
