package ingest

import (
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func vehicleEntity(id string, vehicle *gtfs.VehiclePosition) *gtfs.FeedEntity {
	return &gtfs.FeedEntity{
		Id:      proto.String(id),
		Vehicle: vehicle,
	}
}

func tripUpdateEntity(id string, update *gtfs.TripUpdate) *gtfs.FeedEntity {
	return &gtfs.FeedEntity{
		Id:         proto.String(id),
		TripUpdate: update,
	}
}

func TestMergeDeduplicatesByTripID(t *testing.T) {
	resolver := testResolver()
	now := time.Unix(1700000000, 0)

	feeds := [][]*gtfs.FeedEntity{
		{
			vehicleEntity("1", vehiclePosition("trip-a", "1", "127N", 40.7553, -73.9877)),
			tripUpdateEntity("2", tripUpdate("trip-b", "1", "631N")),
		},
		{
			// Same trips again from a second feed.
			vehicleEntity("3", vehiclePosition("trip-a", "1", "142S", 40.702, -74.0136)),
			tripUpdateEntity("4", tripUpdate("trip-b", "1", "142S")),
		},
	}

	merged := Merge(feeds, resolver, now)

	seen := map[string]int{}
	for _, snapshot := range merged {
		seen[snapshot.TripID]++
	}

	for tripID, count := range seen {
		assert.Equal(t, 1, count, "trip %s appears more than once", tripID)
	}
	assert.Len(t, merged, 2)
}

func TestMergeDirectPositionOutranksTripUpdate(t *testing.T) {
	resolver := testResolver()
	now := time.Unix(1700000000, 0)

	// The trip update for trip-c arrives in an earlier feed than the direct
	// position, but the direct position still wins.
	feeds := [][]*gtfs.FeedEntity{
		{tripUpdateEntity("1", tripUpdate("trip-c", "1", "631N"))},
		{vehicleEntity("2", vehiclePosition("trip-c", "1", "127S", 40.7553, -73.9877))},
	}

	merged := Merge(feeds, resolver, now)
	require.Len(t, merged, 1)

	assert.InDelta(t, 40.7553, merged[0].Lat, 0.0001)
	assert.NotEqual(t, "IN_TRANSIT_TO", merged[0].CurrentStatus)
}

func TestMergeFirstWriteWinsWithinTier(t *testing.T) {
	resolver := testResolver()
	now := time.Unix(1700000000, 0)

	feeds := [][]*gtfs.FeedEntity{
		{vehicleEntity("1", vehiclePosition("trip-d", "1", "127N", 40.7553, -73.9877))},
		{vehicleEntity("2", vehiclePosition("trip-d", "1", "142S", 40.702, -74.0136))},
	}

	merged := Merge(feeds, resolver, now)
	require.Len(t, merged, 1)

	// Feed order is stable, so the first feed's record survives.
	assert.InDelta(t, 40.7553, merged[0].Lat, 0.0001)
}

func TestMergeSkipsUnresolvableEntities(t *testing.T) {
	resolver := testResolver()
	now := time.Unix(1700000000, 0)

	feeds := [][]*gtfs.FeedEntity{
		{
			vehicleEntity("1", vehiclePosition("trip-e", "1", "999X", 0, 0)),
			tripUpdateEntity("2", tripUpdate("trip-f", "1")),
			&gtfs.FeedEntity{Id: proto.String("3")},
		},
		nil, // a failed feed contributes nothing
	}

	merged := Merge(feeds, resolver, now)
	assert.Empty(t, merged)
}
