package config

// ServerConfig defines the HTTP listener addresses.
type ServerConfig struct {
	// Addr is the API listen address.
	Addr string `json:"addr"`
	// MetricsAddr exposes the Prometheus scrape endpoint. Empty disables it.
	MetricsAddr string `json:"metrics_addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
