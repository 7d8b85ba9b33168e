package schedule

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/josepaz/rumbo/core/model"
)

// WindowConfig is the serialized form of one operating window.
type WindowConfig struct {
	StartHour    int  `json:"start_hour" yaml:"start_hour"`
	EndHour      int  `json:"end_hour" yaml:"end_hour"`
	WeekdaysOnly bool `json:"weekdays_only" yaml:"weekdays_only"`
}

// Config overrides the default window table, keyed by tier name.
type Config map[string]WindowConfig

// LoadConfig loads a window table from a JSON or YAML file. Tiers absent
// from the file keep their defaults.
func LoadConfig(path string) (Windows, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return nil, err
	}
	return cfg.Windows(), nil
}

// DecodeConfig reads from r to decode a window table.
func DecodeConfig(r io.Reader, format string) (Windows, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return nil, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg.Windows(), nil
}

// Windows merges the overrides onto the default window table.
func (c Config) Windows() Windows {
	w := Default()
	for name, wc := range c {
		tier := model.ParseServiceTier(name)
		w[tier] = model.Window{Tier: tier, StartHour: wc.StartHour, EndHour: wc.EndHour, WeekdaysOnly: wc.WeekdaysOnly}
	}
	return w
}

// Validate checks that every window has a sane hour range.
func (w Windows) Validate() error {
	for tier, win := range w {
		if win.StartHour < 0 || win.EndHour > 23 || win.StartHour >= win.EndHour {
			return fmt.Errorf("window for %s: invalid hour range %d-%d", tier, win.StartHour, win.EndHour)
		}
	}
	return nil
}
