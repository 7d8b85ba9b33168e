// Package schedule decides when a route may start, based on the operating
// windows of the service tiers it carries.
package schedule

import (
	"time"

	"github.com/josepaz/rumbo/core/model"
)

// Windows is the operating-window table keyed by tier.
type Windows map[model.ServiceTier]model.Window

// Default returns the standard operating windows: urgent routes run long
// hours every day, international routes only on weekday office hours.
func Default() Windows {
	return Windows{
		model.TierUrgent:        {Tier: model.TierUrgent, StartHour: 6, EndHour: 22},
		model.TierExpress:       {Tier: model.TierExpress, StartHour: 7, EndHour: 19},
		model.TierStandard:      {Tier: model.TierStandard, StartHour: 8, EndHour: 18, WeekdaysOnly: true},
		model.TierInternational: {Tier: model.TierInternational, StartHour: 9, EndHour: 16, WeekdaysOnly: true},
	}
}

// ForGroup returns the window governing a mixed group of shipments. The
// presence of a more demanding tier forces its window: urgent wins over
// express, express over international, international over standard.
func (w Windows) ForGroup(shipments []*model.Shipment) model.Window {
	present := map[model.ServiceTier]bool{}
	for _, s := range shipments {
		present[s.Tier] = true
	}
	for _, tier := range []model.ServiceTier{model.TierUrgent, model.TierExpress, model.TierInternational} {
		if present[tier] {
			return w[tier]
		}
	}
	return w[model.TierStandard]
}

// CanStartNow reports whether a route under the window may start at t.
func CanStartNow(t time.Time, win model.Window) bool {
	if win.WeekdaysOnly {
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	h := t.Hour()
	return h >= win.StartHour && h <= win.EndHour
}

// NextValidStart computes the earliest start time at or after t that falls
// inside the window: same day at StartHour when t is still early, otherwise
// the next operating day at StartHour, skipping weekends for weekday-only
// windows.
func NextValidStart(t time.Time, win model.Window) time.Time {
	if CanStartNow(t, win) {
		return t
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), win.StartHour, 0, 0, 0, t.Location())
	if t.Hour() >= win.StartHour || (win.WeekdaysOnly && isWeekend(t)) {
		day = day.AddDate(0, 0, 1)
	}
	if win.WeekdaysOnly {
		for isWeekend(day) {
			day = day.AddDate(0, 0, 1)
		}
	}
	return day
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
