// Package zone classifies shipment destinations into logistics zones, the
// grouping key used to batch shipments geographically.
package zone

import "strings"

// Zone tags. Guatemala destinations get one of the eight macro-region tags;
// everything else collapses into country-level buckets.
const (
	GuatemalaMetro        = "guatemala-metropolitana"
	GuatemalaNorte        = "guatemala-norte"
	GuatemalaNororiente   = "guatemala-nororiente"
	GuatemalaSuroriente   = "guatemala-suroriente"
	GuatemalaCentral      = "guatemala-central"
	GuatemalaSuroccidente = "guatemala-suroccidente"
	GuatemalaNoroccidente = "guatemala-noroccidente"
	GuatemalaPeten        = "guatemala-peten"
	Centroamerica         = "centroamerica"
	Mexico                = "mexico"
	Internacional         = "internacional"
)

var regionZones = []struct {
	match string
	zone  string
}{
	{"metropolitana", GuatemalaMetro},
	{"nororiente", GuatemalaNororiente},
	{"noroccidente", GuatemalaNoroccidente},
	{"suroriente", GuatemalaSuroriente},
	{"suroccidente", GuatemalaSuroccidente},
	{"norte", GuatemalaNorte},
	{"central", GuatemalaCentral},
	{"petén", GuatemalaPeten},
	{"peten", GuatemalaPeten},
}

var centralAmericanCapitals = []string{"managua", "san josé", "san jose", "tegucigalpa", "san salvador", "belize"}

// Classify maps a destination to its logistics zone. A Guatemala region
// string, when present, takes precedence; otherwise the city name is matched
// by substring. There is no failure path: unknown destinations are
// Internacional.
func Classify(city, region string) string {
	if strings.Contains(region, "Guatemala") {
		lower := strings.ToLower(region)
		for _, rz := range regionZones {
			if strings.Contains(lower, rz.match) {
				return rz.zone
			}
		}
	}

	lower := strings.ToLower(city)
	if strings.Contains(lower, "guatemala") || strings.Contains(lower, "mixco") || strings.Contains(lower, "villa nueva") {
		return GuatemalaMetro
	}
	for _, capital := range centralAmericanCapitals {
		if strings.Contains(lower, capital) {
			return Centroamerica
		}
	}
	if strings.Contains(lower, "méxico") || strings.Contains(lower, "mexico") {
		return Mexico
	}
	return Internacional
}

// CountryForCity resolves the destination country name used in customer
// facing summaries.
func CountryForCity(city string) string {
	lower := strings.ToLower(city)
	switch {
	case strings.Contains(lower, "guatemala"):
		return "Guatemala"
	case strings.Contains(lower, "managua"):
		return "Nicaragua"
	case strings.Contains(lower, "san josé"), strings.Contains(lower, "san jose"):
		return "Costa Rica"
	case strings.Contains(lower, "tegucigalpa"):
		return "Honduras"
	case strings.Contains(lower, "san salvador"):
		return "El Salvador"
	case strings.Contains(lower, "méxico"), strings.Contains(lower, "mexico"):
		return "México"
	case strings.Contains(lower, "barcelona"):
		return "España"
	case strings.Contains(lower, "belize"):
		return "Belice"
	default:
		return "Internacional"
	}
}
