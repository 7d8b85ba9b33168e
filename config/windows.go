package config

import (
	"fmt"

	"github.com/josepaz/rumbo/core/schedule"
)

// WindowOverride replaces the default operating window of one service tier.
type WindowOverride struct {
	StartHour    int  `json:"start_hour"`
	EndHour      int  `json:"end_hour"`
	WeekdaysOnly bool `json:"weekdays_only"`
}

// WindowsConfig maps tier names to operating-window overrides. Tiers not
// listed keep their defaults.
type WindowsConfig map[string]WindowOverride

// Validate checks hour ranges and tier names.
func (c WindowsConfig) Validate() error {
	for name, w := range c {
		switch name {
		case "urgent", "express", "standard", "international":
		default:
			return fmt.Errorf("unknown service tier %s in windows", name)
		}
		if w.StartHour < 0 || w.EndHour > 23 || w.StartHour >= w.EndHour {
			return fmt.Errorf("invalid window %d-%d for tier %s", w.StartHour, w.EndHour, name)
		}
	}
	return nil
}

// ToWindows merges the overrides onto the default window table.
func (c WindowsConfig) ToWindows() schedule.Windows {
	sc := make(schedule.Config, len(c))
	for name, o := range c {
		sc[name] = schedule.WindowConfig{
			StartHour:    o.StartHour,
			EndHour:      o.EndHour,
			WeekdaysOnly: o.WeekdaysOnly,
		}
	}
	return sc.Windows()
}
