package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitpulse/transitpulse/pkg/transit"
)

func TestRecordCycleIdempotent(t *testing.T) {
	metrics := NewMetrics(testDB(t))
	ctx := context.Background()

	batch := []transit.VehicleSnapshot{
		{TripID: "t1", RouteID: "1"},
		{TripID: "t2", RouteID: "1"},
		{TripID: "t3", RouteID: "7"},
	}

	require.NoError(t, metrics.RecordCycle(ctx, batch, 100))

	// Re-running the same tick leaves a single row per route.
	require.NoError(t, metrics.RecordCycle(ctx, batch, 100))

	series, err := metrics.Series(ctx, transit.AllRoutes, 0, 200)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 3, series[0].VehicleCount)

	series, err = metrics.Series(ctx, "1", 0, 200)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 2, series[0].VehicleCount)
}

func TestSeriesWindowAndOrder(t *testing.T) {
	metrics := NewMetrics(testDB(t))
	ctx := context.Background()

	for tick, count := range map[int64]int{100: 4, 200: 6, 300: 8} {
		batch := make([]transit.VehicleSnapshot, count)
		for i := range batch {
			batch[i] = transit.VehicleSnapshot{TripID: "t", RouteID: "1"}
		}

		require.NoError(t, metrics.RecordCycle(ctx, batch, tick))
	}

	series, err := metrics.Series(ctx, transit.AllRoutes, 100, 200)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, int64(100), series[0].SnapshotTS)
	assert.Equal(t, 4, series[0].VehicleCount)
	assert.Equal(t, int64(200), series[1].SnapshotTS)
}

func TestAveragesByRouteExcludesAllAggregate(t *testing.T) {
	metrics := NewMetrics(testDB(t))
	ctx := context.Background()

	require.NoError(t, metrics.RecordCycle(ctx, []transit.VehicleSnapshot{
		{TripID: "t1", RouteID: "1"},
		{TripID: "t2", RouteID: "7"},
	}, 100))
	require.NoError(t, metrics.RecordCycle(ctx, []transit.VehicleSnapshot{
		{TripID: "t1", RouteID: "1"},
		{TripID: "t2", RouteID: "1"},
		{TripID: "t3", RouteID: "7"},
	}, 200))

	averages, err := metrics.AveragesByRoute(ctx, 0, 300)
	require.NoError(t, err)

	assert.NotContains(t, averages, transit.AllRoutes)
	assert.InDelta(t, 1.5, averages["1"], 0.0001)
	assert.InDelta(t, 1.0, averages["7"], 0.0001)
}
