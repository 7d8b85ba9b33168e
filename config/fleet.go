package config

import (
	"github.com/josepaz/rumbo/core/assign"
	"github.com/josepaz/rumbo/core/model"
)

// FleetDriver is one configured driver.
type FleetDriver struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Vehicle         string  `json:"vehicle"`
	ExperienceYears float64 `json:"experience_years"`
	Rating          float64 `json:"rating"`
}

// FleetConfig declares the driver roster. An empty roster falls back to the
// built-in seed fleet.
type FleetConfig struct {
	Drivers []FleetDriver `json:"drivers"`
}

// Roster returns the configured drivers, or the seed fleet when none are
// declared. All configured drivers start available.
func (c FleetConfig) Roster() []model.Driver {
	if len(c.Drivers) == 0 {
		return assign.DefaultDrivers()
	}
	drivers := make([]model.Driver, 0, len(c.Drivers))
	for _, d := range c.Drivers {
		drivers = append(drivers, model.Driver{
			ID:              d.ID,
			Name:            d.Name,
			Phone:           d.Phone,
			Vehicle:         model.VehicleClass(d.Vehicle),
			ExperienceYears: d.ExperienceYears,
			Rating:          d.Rating,
			State:           model.DriverAvailable,
		})
	}
	return drivers
}
