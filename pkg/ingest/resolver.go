package ingest

import (
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/transitpulse/transitpulse/pkg/reference"
	"github.com/transitpulse/transitpulse/pkg/transit"
)

// Resolver turns raw feed entities into vehicle snapshot candidates. It holds
// only the immutable reference tables, so resolution is a pure function of
// the entity and the clock passed in.
type Resolver struct {
	Stops     *reference.Stops
	Terminals *reference.Terminals
}

func NewResolver(stops *reference.Stops, terminals *reference.Terminals) *Resolver {
	return &Resolver{
		Stops:     stops,
		Terminals: terminals,
	}
}

// ResolveVehiclePosition parses a direct vehicle position entity. Reported
// coordinates of exactly (0, 0) count as absent and fall back to the static
// coordinates of the associated stop; a vehicle with no resolvable position
// at all is discarded.
func (r *Resolver) ResolveVehiclePosition(vehicle *gtfs.VehiclePosition, now time.Time) (transit.VehicleSnapshot, bool) {
	trip := vehicle.GetTrip()
	tripID := trip.GetTripId()
	routeID := trip.GetRouteId()

	if tripID == "" || routeID == "" {
		return transit.VehicleSnapshot{}, false
	}

	stopID := vehicle.GetStopId()

	lat := float64(vehicle.GetPosition().GetLatitude())
	lon := float64(vehicle.GetPosition().GetLongitude())

	if lat == 0 && lon == 0 {
		coordinates, found := r.Stops.Coordinates(stopID)
		if !found {
			return transit.VehicleSnapshot{}, false
		}

		lat = coordinates.Lat
		lon = coordinates.Lon
	}

	timestamp := int64(vehicle.GetTimestamp())
	if timestamp == 0 {
		timestamp = now.Unix()
	}

	currentStatus := ""
	if vehicle.CurrentStatus != nil {
		currentStatus = vehicle.GetCurrentStatus().String()
	}

	direction, destination := r.resolveHeading(routeID, stopID)

	return transit.VehicleSnapshot{
		TripID:        tripID,
		RouteID:       routeID,
		Lat:           lat,
		Lon:           lon,
		Timestamp:     timestamp,
		StopName:      r.Stops.DisplayName(stopID),
		CurrentStatus: currentStatus,
		Direction:     direction,
		Destination:   destination,
		Consist:       vehicle.GetVehicle().GetLabel(),
	}, true
}

// ResolveTripUpdate derives one synthetic position from a trip update entity,
// using the first stop time update whose stop resolves to known coordinates.
// Subway feeds mostly publish trip updates without vehicle positions, so this
// path carries the bulk of the data.
func (r *Resolver) ResolveTripUpdate(tripUpdate *gtfs.TripUpdate, now time.Time) (transit.VehicleSnapshot, bool) {
	trip := tripUpdate.GetTrip()
	tripID := trip.GetTripId()
	routeID := trip.GetRouteId()

	if tripID == "" || routeID == "" {
		return transit.VehicleSnapshot{}, false
	}

	timestamp := int64(tripUpdate.GetTimestamp())
	if timestamp == 0 {
		timestamp = now.Unix()
	}

	for _, stopTimeUpdate := range tripUpdate.GetStopTimeUpdate() {
		stopID := stopTimeUpdate.GetStopId()
		if stopID == "" {
			continue
		}

		coordinates, found := r.Stops.Coordinates(stopID)
		if !found {
			continue
		}

		direction, destination := r.resolveHeading(routeID, stopID)

		return transit.VehicleSnapshot{
			TripID:        tripID,
			RouteID:       routeID,
			Lat:           coordinates.Lat,
			Lon:           coordinates.Lon,
			Timestamp:     timestamp,
			StopName:      r.Stops.DisplayName(stopID),
			CurrentStatus: transit.StatusInTransitTo,
			Direction:     direction,
			Destination:   destination,
		}, true
	}

	return transit.VehicleSnapshot{}, false
}

// resolveHeading derives the direction code from the trailing character of
// the stop id and resolves it against the terminal table. Unmapped pairs keep
// the raw code and an Unknown destination.
func (r *Resolver) resolveHeading(routeID string, stopID string) (string, string) {
	directionCode := ""
	if stopID != "" {
		directionCode = stopID[len(stopID)-1:]
	}

	if info, found := r.Terminals.Lookup(routeID, directionCode); found {
		return info.Direction, info.Terminal
	}

	if directionCode == "" {
		directionCode = transit.UnknownDestination
	}

	return directionCode, transit.UnknownDestination
}
