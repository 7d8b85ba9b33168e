package config

import (
	"fmt"

	"github.com/josepaz/rumbo/auth"
)

// WeatherConfig selects where the engine reads the current condition from.
type WeatherConfig struct {
	// Source is "static" to pin the engine.weather condition, or "feed" to
	// poll an HTTP endpoint.
	Source string `json:"source"`
	// URL is the feed endpoint, required when Source is "feed".
	URL string `json:"url"`
	// TimeoutSeconds bounds each feed request. Zero keeps the client default.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Auth configures OAuth2 client credentials for the feed, when set.
	Auth *auth.Conf `json:"auth"`
}

func (c *WeatherConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = "static"
	}
}

func (c WeatherConfig) Validate() error {
	switch c.Source {
	case "static":
		return nil
	case "feed":
		if c.URL == "" {
			return fmt.Errorf("weather feed source requires a url")
		}
		return nil
	default:
		return fmt.Errorf("unknown weather source %s", c.Source)
	}
}
