// Package connectors defines the external feed contracts the engine consumes.
// The only feed today is weather: preliminary estimates need the current
// condition for the delivery region.
package connectors

import "context"

// WeatherSource reports the current weather condition as one of the engine's
// canonical strings: clear, rain, storm, fog or high_wind.
type WeatherSource interface {
	Current(ctx context.Context) (string, error)
}

// Static is a WeatherSource pinned to one condition. It backs deployments
// without a live feed.
type Static string

// Current implements WeatherSource.
func (s Static) Current(context.Context) (string, error) {
	return string(s), nil
}
