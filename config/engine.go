package config

import (
	"fmt"
	"time"
)

// EngineConfig tunes the optimization loop.
type EngineConfig struct {
	// OptimizeIntervalSeconds is the period between automatic optimization
	// runs. Zero or negative disables the periodic loop.
	OptimizeIntervalSeconds int `json:"optimize_interval_seconds"`
	// Weather is the assumed condition for preliminary estimates when no
	// feed is wired in: clear, rain, storm, fog or high_wind.
	Weather string `json:"weather"`
}

// SetDefaults applies sane defaults.
func (c *EngineConfig) SetDefaults() {
	if c.OptimizeIntervalSeconds == 0 {
		c.OptimizeIntervalSeconds = 300
	}
	if c.Weather == "" {
		c.Weather = "clear"
	}
}

// Validate checks mandatory fields.
func (c EngineConfig) Validate() error {
	switch c.Weather {
	case "clear", "rain", "storm", "fog", "high_wind":
		return nil
	default:
		return fmt.Errorf("unknown weather condition %s", c.Weather)
	}
}

// OptimizeInterval returns the loop period, or zero when disabled.
func (c EngineConfig) OptimizeInterval() time.Duration {
	if c.OptimizeIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.OptimizeIntervalSeconds) * time.Second
}
