package model

// VehicleClass identifies the vehicle type a shipment travels on.
type VehicleClass string

const (
	VehicleMotorcycle VehicleClass = "motorcycle"
	VehicleVan        VehicleClass = "van"
	VehicleTruck      VehicleClass = "truck"
)

// Capacity bounds the load of a vehicle class.
type Capacity struct {
	MaxWeightKg float64 `json:"max_weight_kg"`
	MaxVolumeM3 float64 `json:"max_volume_m3"`
}

var capacities = map[VehicleClass]Capacity{
	VehicleMotorcycle: {MaxWeightKg: 15, MaxVolumeM3: 0.02},
	VehicleVan:        {MaxWeightKg: 500, MaxVolumeM3: 3},
	VehicleTruck:      {MaxWeightKg: 3000, MaxVolumeM3: 20},
}

// Capacity returns the legal load bounds for the class. Unknown classes get
// truck capacity so packing never divides by zero.
func (c VehicleClass) Capacity() Capacity {
	if cp, ok := capacities[c]; ok {
		return cp
	}
	return capacities[VehicleTruck]
}

// BaseSpeedKmh is the nominal travel speed of the class before driver and
// traffic adjustments.
func (c VehicleClass) BaseSpeedKmh() float64 {
	switch c {
	case VehicleMotorcycle:
		return 35
	case VehicleVan:
		return 40
	case VehicleTruck:
		return 45
	default:
		return 40
	}
}

// SelectVehicleClass picks the vehicle class a shipment travels on.
// International freight always goes on a truck. Standard freight also goes on
// a truck so that routes consolidate. Urgent and express shipments ride
// smaller vehicles when they fit.
func SelectVehicleClass(tier ServiceTier, weightKg, volumeM3 float64) VehicleClass {
	switch tier {
	case TierInternational:
		return VehicleTruck
	case TierUrgent:
		if weightKg <= 5 && volumeM3 <= 0.01 {
			return VehicleMotorcycle
		}
		return VehicleVan
	case TierExpress:
		if weightKg <= 10 && volumeM3 <= 0.05 {
			return VehicleVan
		}
		return VehicleTruck
	default:
		return VehicleTruck
	}
}
