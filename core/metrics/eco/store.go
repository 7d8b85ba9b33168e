package eco

import "time"

// Store persists distance KPI records.
type Store interface {
	Add(Record) error
	Query(driverID string, start, end time.Time) ([]Record, error)
}

// Day aligns a time to the start of its day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
