package ingest

import (
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/transitpulse/transitpulse/pkg/transit"
)

// Merge flattens the entities of every fetched feed into one deduplicated
// batch. Direct vehicle positions outrank positions inferred from trip
// updates; within a rank the first snapshot wins, in feed order then entity
// order, so a fixed input always merges to the same batch.
func Merge(feeds [][]*gtfs.FeedEntity, resolver *Resolver, now time.Time) []transit.VehicleSnapshot {
	var direct []transit.VehicleSnapshot
	var inferred []transit.VehicleSnapshot

	for _, entities := range feeds {
		for _, entity := range entities {
			if vehicle := entity.GetVehicle(); vehicle != nil && vehicle.GetTrip() != nil {
				if snapshot, ok := resolver.ResolveVehiclePosition(vehicle, now); ok {
					direct = append(direct, snapshot)
				}
			}

			if tripUpdate := entity.GetTripUpdate(); tripUpdate != nil && tripUpdate.GetTrip() != nil {
				if snapshot, ok := resolver.ResolveTripUpdate(tripUpdate, now); ok {
					inferred = append(inferred, snapshot)
				}
			}
		}
	}

	seenTripIDs := map[string]bool{}
	merged := make([]transit.VehicleSnapshot, 0, len(direct)+len(inferred))

	for _, tier := range [][]transit.VehicleSnapshot{direct, inferred} {
		for _, snapshot := range tier {
			if seenTripIDs[snapshot.TripID] {
				continue
			}

			seenTripIDs[snapshot.TripID] = true
			merged = append(merged, snapshot)
		}
	}

	return merged
}
