package model

import "time"

// DriverState tracks driver availability.
type DriverState string

const (
	DriverAvailable DriverState = "available"
	DriverEnRoute   DriverState = "en_route"
)

// Driver is a member of the shared driver pool. State flips are performed
// only by the assignment engine; everything else treats drivers as read-only.
type Driver struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone"`
	Vehicle         VehicleClass `json:"vehicle"`
	ExperienceYears float64      `json:"experience_years"`
	Rating          float64      `json:"rating"` // 0 to 5
	State           DriverState  `json:"state"`
}

// DriverSnapshot is the immutable view of a driver recorded on estimates and
// notifications at assignment time.
type DriverSnapshot struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone"`
	Vehicle         VehicleClass `json:"vehicle"`
	ExperienceYears float64      `json:"experience_years"`
	Rating          float64      `json:"rating"`
	AssignedAt      time.Time    `json:"assigned_at"`
	Zone            string       `json:"zone"`
}

// Snapshot captures the driver at assignment time.
func (d Driver) Snapshot(zone string, at time.Time) DriverSnapshot {
	return DriverSnapshot{
		ID:              d.ID,
		Name:            d.Name,
		Phone:           d.Phone,
		Vehicle:         d.Vehicle,
		ExperienceYears: d.ExperienceYears,
		Rating:          d.Rating,
		AssignedAt:      at,
		Zone:            zone,
	}
}
