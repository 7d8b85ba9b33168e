package main

import (
	"fmt"
	"time"
)

// Config holds parameters for the simulator.
type Config struct {
	APIURL         string
	Broker         string
	DemandInterval time.Duration
	Count          int
	Drivers        bool
	PollInterval   time.Duration
	StopDelay      time.Duration
	TopicPrefix    string
	Seed           int64
	Verbose        bool
}

func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.Drivers && c.Broker == "" {
		return fmt.Errorf("driver simulation requires a broker")
	}
	if c.DemandInterval <= 0 {
		return fmt.Errorf("demand interval must be positive")
	}
	return nil
}
