package queue

import (
	"fmt"
	"sort"

	"github.com/josepaz/rumbo/core/model"
)

const (
	// MinBatchSize is the demand threshold below which a partition keeps
	// waiting for more shipments.
	MinBatchSize = 5
	// MaxStopsPerRoute caps how many deliveries one driver handles.
	MaxStopsPerRoute = 12
)

// Group is a set of shipments sharing a vehicle class and zone, ready to be
// split into routes.
type Group struct {
	Key          string
	Vehicle      model.VehicleClass
	Zone         string
	Shipments    []model.Shipment
	UrgentBypass bool
}

// partitionKey identifies the (vehicle, zone) bucket a shipment falls into.
func partitionKey(vehicle model.VehicleClass, zone string) string {
	return fmt.Sprintf("%s/%s", vehicle, zone)
}

// AnalyzeAndGroup partitions pending shipments by (vehicle class, zone) and
// promotes every partition that reached MinBatchSize. Partitions below the
// threshold stay queued, with one exception: urgent shipments never wait. They
// are carved out of an undersized partition into their own group, flagged
// UrgentBypass, while their non-urgent neighbours remain pending.
//
// The second return value lists the shipments left in the queue.
func AnalyzeAndGroup(pending []model.Shipment) ([]Group, []model.Shipment) {
	buckets := make(map[string][]model.Shipment)
	var order []string
	for _, s := range pending {
		k := partitionKey(s.Vehicle, s.Zone)
		if _, seen := buckets[k]; !seen {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], s)
	}
	sort.Strings(order)

	var groups []Group
	var remaining []model.Shipment
	for _, k := range order {
		members := buckets[k]
		vehicle, zone := members[0].Vehicle, members[0].Zone

		if len(members) >= MinBatchSize {
			groups = append(groups, Group{Key: k, Vehicle: vehicle, Zone: zone, Shipments: members})
			continue
		}

		var urgent, rest []model.Shipment
		for _, s := range members {
			if s.Tier == model.TierUrgent {
				urgent = append(urgent, s)
			} else {
				rest = append(rest, s)
			}
		}
		if len(urgent) > 0 {
			groups = append(groups, Group{
				Key:          k,
				Vehicle:      vehicle,
				Zone:         zone,
				Shipments:    urgent,
				UrgentBypass: true,
			})
		}
		remaining = append(remaining, rest...)
	}
	return groups, remaining
}

// SplitIntoSubRoutes orders a group by dispatch priority (destination city as
// a stable tiebreak) and greedily packs shipments into sub-routes bounded by
// the vehicle's capacity and MaxStopsPerRoute. A shipment that alone exceeds
// capacity still gets a route of its own rather than being dropped.
func SplitIntoSubRoutes(g Group) [][]model.Shipment {
	shipments := make([]model.Shipment, len(g.Shipments))
	copy(shipments, g.Shipments)
	sort.SliceStable(shipments, func(i, j int) bool {
		ri, rj := shipments[i].Tier.PriorityRank(), shipments[j].Tier.PriorityRank()
		if ri != rj {
			return ri < rj
		}
		return shipments[i].Recipient.City < shipments[j].Recipient.City
	})

	cap := g.Vehicle.Capacity()

	var routes [][]model.Shipment
	var cur []model.Shipment
	var weight, volume float64
	flush := func() {
		if len(cur) > 0 {
			routes = append(routes, cur)
			cur, weight, volume = nil, 0, 0
		}
	}
	for _, s := range shipments {
		w, v := s.Package.WeightKg, s.Package.VolumeM3
		fits := weight+w <= cap.MaxWeightKg && volume+v <= cap.MaxVolumeM3 && len(cur) < MaxStopsPerRoute
		if !fits && len(cur) > 0 {
			flush()
		}
		cur = append(cur, s)
		weight += w
		volume += v
	}
	flush()
	return routes
}
