// Package conditions holds the time-varying multipliers applied to travel
// time estimates: traffic by hour of day, weather, service tier and package
// weight. All factors are pure functions of their inputs and tunable through
// Config.
package conditions

import (
	"strings"

	"github.com/josepaz/rumbo/core/model"
)

// Config defines the multiplier table. Zero values are replaced by defaults
// in New so a partially specified config stays usable.
type Config struct {
	TrafficMorningPeak float64 `json:"traffic_morning_peak" yaml:"traffic_morning_peak"`
	TrafficLunch       float64 `json:"traffic_lunch" yaml:"traffic_lunch"`
	TrafficEveningPeak float64 `json:"traffic_evening_peak" yaml:"traffic_evening_peak"`
	TrafficNight       float64 `json:"traffic_night" yaml:"traffic_night"`

	WeatherRain     float64 `json:"weather_rain" yaml:"weather_rain"`
	WeatherStorm    float64 `json:"weather_storm" yaml:"weather_storm"`
	WeatherFog      float64 `json:"weather_fog" yaml:"weather_fog"`
	WeatherHighWind float64 `json:"weather_high_wind" yaml:"weather_high_wind"`

	TierUrgent   float64 `json:"tier_urgent" yaml:"tier_urgent"`
	TierExpress  float64 `json:"tier_express" yaml:"tier_express"`
	TierStandard float64 `json:"tier_standard" yaml:"tier_standard"`
	// International splits by reach: Central America vs overseas.
	TierRegional float64 `json:"tier_regional" yaml:"tier_regional"`
	TierOverseas float64 `json:"tier_overseas" yaml:"tier_overseas"`
}

// New returns a Config with defaults filled in for unset fields.
func New(cfg Config) Config {
	def := Default()
	fill := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&cfg.TrafficMorningPeak, def.TrafficMorningPeak)
	fill(&cfg.TrafficLunch, def.TrafficLunch)
	fill(&cfg.TrafficEveningPeak, def.TrafficEveningPeak)
	fill(&cfg.TrafficNight, def.TrafficNight)
	fill(&cfg.WeatherRain, def.WeatherRain)
	fill(&cfg.WeatherStorm, def.WeatherStorm)
	fill(&cfg.WeatherFog, def.WeatherFog)
	fill(&cfg.WeatherHighWind, def.WeatherHighWind)
	fill(&cfg.TierUrgent, def.TierUrgent)
	fill(&cfg.TierExpress, def.TierExpress)
	fill(&cfg.TierStandard, def.TierStandard)
	fill(&cfg.TierRegional, def.TierRegional)
	fill(&cfg.TierOverseas, def.TierOverseas)
	return cfg
}

// Default returns the multiplier table observed on Central American roads.
func Default() Config {
	return Config{
		TrafficMorningPeak: 1.5,
		TrafficLunch:       1.3,
		TrafficEveningPeak: 1.6,
		TrafficNight:       0.8,
		WeatherRain:        1.4,
		WeatherStorm:       1.8,
		WeatherFog:         1.3,
		WeatherHighWind:    1.2,
		TierUrgent:         0.6,
		TierExpress:        0.7,
		TierStandard:       1.0,
		TierRegional:       1.2,
		TierOverseas:       1.5,
	}
}

// TrafficFactor returns the congestion multiplier for the given hour of day.
func (c Config) TrafficFactor(hour int) float64 {
	switch {
	case hour >= 7 && hour <= 9:
		return c.TrafficMorningPeak
	case hour >= 12 && hour <= 14:
		return c.TrafficLunch
	case hour >= 17 && hour <= 19:
		return c.TrafficEveningPeak
	case hour >= 20 || hour <= 6:
		return c.TrafficNight
	default:
		return 1.0
	}
}

// WeatherFactor returns the multiplier for a weather condition. Unknown
// conditions, including "clear", are neutral.
func (c Config) WeatherFactor(condition string) float64 {
	switch strings.ToLower(condition) {
	case "rain", "lluvia":
		return c.WeatherRain
	case "storm", "tormenta":
		return c.WeatherStorm
	case "fog", "niebla":
		return c.WeatherFog
	case "high_wind", "viento_fuerte":
		return c.WeatherHighWind
	default:
		return 1.0
	}
}

// TierFactor returns the speed multiplier for a service tier. The declared
// service class decides whether an international shipment is regional
// (Central America) or overseas.
func (c Config) TierFactor(tier model.ServiceTier, declaredClass string) float64 {
	switch tier {
	case model.TierUrgent:
		return c.TierUrgent
	case model.TierExpress:
		return c.TierExpress
	case model.TierInternational:
		if strings.Contains(strings.ToLower(declaredClass), "centroam") {
			return c.TierRegional
		}
		return c.TierOverseas
	default:
		return c.TierStandard
	}
}

// WeightFactor penalises heavy packages: 20% above 10 kg, 10% above 5 kg.
func WeightFactor(weightKg float64) float64 {
	switch {
	case weightKg > 10:
		return 1.2
	case weightKg > 5:
		return 1.1
	default:
		return 1.0
	}
}

// ProcessingHours is the fixed handling overhead added per tier before a
// shipment leaves the hub.
func ProcessingHours(tier model.ServiceTier) float64 {
	switch tier {
	case model.TierUrgent:
		return 0.5
	case model.TierExpress:
		return 1
	case model.TierInternational:
		return 4
	default:
		return 2
	}
}
