package eco

import "time"

// Record aggregates distance KPIs for a driver and day. SavedKm is the
// distance the optimizer shaved off compared to unconsolidated per-shipment
// trips.
type Record struct {
	DriverID string
	Date     time.Time
	DrivenKm float64
	SavedKm  float64
}

// CO2Avoided returns the grams of CO2 avoided using the per-kilometre
// emission factor.
func (r Record) CO2Avoided(gramsPerKm float64) float64 {
	return r.SavedKm * gramsPerKm
}

// SavingsRatio returns saved distance relative to driven distance.
func (r Record) SavingsRatio() float64 {
	if r.DrivenKm == 0 {
		if r.SavedKm == 0 {
			return 0
		}
		return r.SavedKm
	}
	return r.SavedKm / r.DrivenKm
}
