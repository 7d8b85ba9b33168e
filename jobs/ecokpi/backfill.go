// Package ecokpi rebuilds driver eco KPIs from historical routes.
package ecokpi

import (
	"github.com/josepaz/rumbo/core/metrics/eco"
	"github.com/josepaz/rumbo/core/model"
)

// Backfill processes historical routes and populates the store with per
// driver, per day distance records. SavedKm is derived from the route's
// improvement percentage, matching what the live eco sink reports.
func Backfill(store eco.Store, history []model.Route) error {
	for _, r := range history {
		rec := eco.Record{
			DriverID: r.Driver.ID,
			Date:     eco.Day(r.CreatedAt),
			DrivenKm: r.Stats.TotalDistanceKm,
			SavedKm:  r.Stats.TotalDistanceKm * r.Stats.ImprovementPct / 100,
		}
		if err := store.Add(rec); err != nil {
			return err
		}
	}
	return nil
}
