// Package config loads and validates the service configuration from YAML or
// JSON files, with environment overrides under the RUMBO_ prefix.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/josepaz/rumbo/core/conditions"
	"github.com/josepaz/rumbo/core/metrics"
	"github.com/josepaz/rumbo/infra/mqtt"
)

type Config struct {
	Server     ServerConfig      `json:"server"`
	Store      StoreConfig       `json:"store"`
	Engine     EngineConfig      `json:"engine"`
	Notify     NotifyConfig      `json:"notify"`
	Metrics    metrics.Config    `json:"metrics"`
	Conditions conditions.Config `json:"conditions"`
	Windows    WindowsConfig     `json:"windows"`
	Fleet      FleetConfig       `json:"fleet"`
	Weather    WeatherConfig     `json:"weather"`
	Sentry     SentryConfig      `json:"sentry"`
	Telemetry  TelemetryConfig   `json:"telemetry"`
}

// NotifyConfig controls customer and driver notifications. When disabled the
// engine still runs but emits nothing over MQTT.
type NotifyConfig struct {
	Enabled bool        `json:"enabled"`
	MQTT    mqtt.Config `json:"mqtt"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("RUMBO_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rumbo_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Engine.SetDefaults()
	cfg.Weather.SetDefaults()
	cfg.Telemetry.SetDefaults()
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Windows.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Weather.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
