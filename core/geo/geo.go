// Package geo provides great-circle distance math and the static geocoding
// table used when shipments arrive with city names instead of coordinates.
package geo

import (
	"math"

	"github.com/josepaz/rumbo/core/model"
)

const earthRadiusKm = 6371

// Distance returns the great-circle distance in kilometres between two
// points, using the haversine formula.
func Distance(a, b model.Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}
