package engine

import "github.com/josepaz/rumbo/core/model"

// Base shipping rates in quetzales per tier.
var baseRateQ = map[model.ServiceTier]float64{
	model.TierStandard:      25,
	model.TierExpress:       45,
	model.TierUrgent:        85,
	model.TierInternational: 125,
}

const (
	// includedWeightKg ships at the base rate; every kilogram above it is
	// billed at extraKgRateQ.
	includedWeightKg = 5.0
	extraKgRateQ     = 8.0
)

// Quote returns the shipping price in quetzales for a tier and weight.
func Quote(tier model.ServiceTier, weightKg float64) float64 {
	price := baseRateQ[tier]
	if price == 0 {
		price = baseRateQ[model.TierStandard]
	}
	if weightKg > includedWeightKg {
		price += (weightKg - includedWeightKg) * extraKgRateQ
	}
	return price
}
