// Package export writes route manifests for dispatch boards and driver
// hand-off sheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/josepaz/rumbo/core/model"
)

// WriteJSON writes the routes to w in JSON format.
func WriteJSON(w io.Writer, routes []model.Route) error {
	enc := json.NewEncoder(w)
	return enc.Encode(routes)
}

// WriteCSV writes one row per stop to w with dispatch-board headers.
func WriteCSV(w io.Writer, routes []model.Route) error {
	cw := csv.NewWriter(w)
	header := []string{"route_id", "driver_id", "vehicle", "zone", "position", "shipment_id", "city", "distance_km", "arrival_at"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range routes {
		for _, s := range r.Stops {
			rec := []string{
				r.ID,
				r.Driver.ID,
				string(r.Vehicle),
				r.Zone,
				strconv.Itoa(s.Position),
				s.ShipmentID,
				s.City,
				strconv.FormatFloat(s.DistanceKm, 'f', 2, 64),
				s.ArrivalAt.Format(time.RFC3339),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
