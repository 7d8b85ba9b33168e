package config

// TelemetryConfig controls ingestion of driver progress reports over MQTT.
type TelemetryConfig struct {
	Enabled bool `json:"enabled"`
	// TopicPrefix is the topic root drivers publish under; the manager
	// subscribes to <prefix>/+.
	TopicPrefix string `json:"topic_prefix"`
}

func (c *TelemetryConfig) SetDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "rumbo/telemetry/driver"
	}
}
