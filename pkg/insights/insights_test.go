package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitpulse/transitpulse/pkg/transit"
)

// fakeMetricsSource serves a current and a previous window, split on whether
// the requested window ends near the present.
type fakeMetricsSource struct {
	current  []transit.MetricsSnapshot
	previous []transit.MetricsSnapshot
	averages map[string]float64
}

func (f *fakeMetricsSource) Series(ctx context.Context, routeID string, from int64, to int64) ([]transit.MetricsSnapshot, error) {
	if to > time.Now().Unix()-60 {
		return f.current, nil
	}

	return f.previous, nil
}

func (f *fakeMetricsSource) AveragesByRoute(ctx context.Context, from int64, to int64) (map[string]float64, error) {
	return f.averages, nil
}

func counts(values ...int) []transit.MetricsSnapshot {
	series := make([]transit.MetricsSnapshot, 0, len(values))
	for i, value := range values {
		series = append(series, transit.MetricsSnapshot{
			SnapshotTS:   int64(i * 10),
			RouteID:      transit.AllRoutes,
			VehicleCount: value,
		})
	}

	return series
}

func TestGetInsightsWindowAverage(t *testing.T) {
	source := &fakeMetricsSource{
		current:  counts(10, 12, 14),
		averages: map[string]float64{},
	}

	result, err := NewAggregator(source).GetInsights(context.Background(), Query{Range: "1h"})
	require.NoError(t, err)

	assert.Equal(t, transit.AllRoutes, result.Route)
	assert.Equal(t, "1h", result.Range)
	assert.Equal(t, "none", result.Compare)
	assert.Equal(t, 12, result.CurrentAvg)
	assert.Len(t, result.Series, 3)

	assert.Nil(t, result.PreviousAvg)
	assert.Nil(t, result.Delta)
	assert.Nil(t, result.DeltaPercent)
}

func TestGetInsightsPreviousWindowComparison(t *testing.T) {
	source := &fakeMetricsSource{
		current:  counts(10, 12, 14),
		previous: counts(8, 8),
		averages: map[string]float64{},
	}

	result, err := NewAggregator(source).GetInsights(context.Background(), Query{Range: "1h", Compare: "previous"})
	require.NoError(t, err)

	assert.Equal(t, "previous", result.Compare)
	require.NotNil(t, result.PreviousAvg)
	require.NotNil(t, result.Delta)
	require.NotNil(t, result.DeltaPercent)

	assert.Equal(t, 8, *result.PreviousAvg)
	assert.Equal(t, 4, *result.Delta)
	assert.Equal(t, 50, *result.DeltaPercent)
}

func TestGetInsightsEmptyPreviousWindow(t *testing.T) {
	source := &fakeMetricsSource{
		current:  counts(10, 12, 14),
		averages: map[string]float64{},
	}

	result, err := NewAggregator(source).GetInsights(context.Background(), Query{Range: "1h", Compare: "previous"})
	require.NoError(t, err)

	// No previous data means no comparison fields at all.
	assert.Equal(t, "previous", result.Compare)
	assert.Nil(t, result.PreviousAvg)
	assert.Nil(t, result.Delta)
	assert.Nil(t, result.DeltaPercent)
}

func TestGetInsightsZeroPreviousAverage(t *testing.T) {
	source := &fakeMetricsSource{
		current:  counts(10, 12, 14),
		previous: counts(0, 0),
		averages: map[string]float64{},
	}

	result, err := NewAggregator(source).GetInsights(context.Background(), Query{Range: "1h", Compare: "previous"})
	require.NoError(t, err)

	require.NotNil(t, result.PreviousAvg)
	require.NotNil(t, result.Delta)

	assert.Equal(t, 0, *result.PreviousAvg)
	assert.Equal(t, 12, *result.Delta)
	assert.Nil(t, result.DeltaPercent)
}

func TestGetInsightsSingleRoute(t *testing.T) {
	source := &fakeMetricsSource{
		current: counts(6, 8),
	}

	result, err := NewAggregator(source).GetInsights(context.Background(), Query{Route: "7", Range: "15m"})
	require.NoError(t, err)

	assert.Equal(t, "7", result.Route)
	assert.Equal(t, "15m", result.Range)
	assert.Equal(t, 7, result.CurrentAvg)

	require.Len(t, result.TopRoutes, 1)
	assert.Equal(t, RouteAverage{RouteID: "7", Average: 7}, result.TopRoutes[0])
}

func TestTopRoutesOrdering(t *testing.T) {
	ranked := TopRoutes(map[string]float64{
		"A": 5,
		"B": 9,
		"C": 2,
		"D": 9,
	}, 5)

	require.Len(t, ranked, 4)
	assert.Equal(t, "B", ranked[0].RouteID)
	assert.Equal(t, "D", ranked[1].RouteID)
	assert.Equal(t, "A", ranked[2].RouteID)
	assert.Equal(t, "C", ranked[3].RouteID)
}

func TestTopRoutesLimit(t *testing.T) {
	ranked := TopRoutes(map[string]float64{
		"1": 1, "2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7,
	}, 5)

	require.Len(t, ranked, 5)
	assert.Equal(t, "7", ranked[0].RouteID)
	assert.Equal(t, "3", ranked[4].RouteID)
}

func TestTopRoutesRoundsAfterRanking(t *testing.T) {
	// Ranking uses the raw means, not the rounded averages.
	ranked := TopRoutes(map[string]float64{
		"A": 4.6,
		"B": 5.4,
	}, 5)

	require.Len(t, ranked, 2)
	assert.Equal(t, RouteAverage{RouteID: "B", Average: 5}, ranked[0])
	assert.Equal(t, RouteAverage{RouteID: "A", Average: 5}, ranked[1])
}

func TestParseRange(t *testing.T) {
	label, duration := ParseRange("6h")
	assert.Equal(t, "6h", label)
	assert.Equal(t, 6*time.Hour, duration)

	label, duration = ParseRange("3d")
	assert.Equal(t, "1h", label)
	assert.Equal(t, time.Hour, duration)

	label, duration = ParseRange("")
	assert.Equal(t, "1h", label)
	assert.Equal(t, time.Hour, duration)
}
