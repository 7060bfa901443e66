package insights

import (
	"context"
	"math"
	"time"

	"github.com/transitpulse/transitpulse/pkg/transit"
	"golang.org/x/exp/slices"
)

const topRouteLimit = 5

// MetricsSource is the persisted count series the aggregator reads. Answers
// always reflect completed ingestion cycles, never the in-flight batch.
type MetricsSource interface {
	Series(ctx context.Context, routeID string, from int64, to int64) ([]transit.MetricsSnapshot, error)
	AveragesByRoute(ctx context.Context, from int64, to int64) (map[string]float64, error)
}

type Query struct {
	Route   string
	Range   string
	Compare string
}

type RouteAverage struct {
	RouteID string `json:"route_id"`
	Average int    `json:"average"`
}

type Result struct {
	Route   string `json:"route"`
	Range   string `json:"range"`
	Compare string `json:"compare"`

	Series     []transit.MetricsSnapshot `json:"series"`
	CurrentAvg int                       `json:"current_avg"`

	PreviousAvg  *int `json:"previous_avg"`
	Delta        *int `json:"delta"`
	DeltaPercent *int `json:"delta_percent"`

	TopRoutes []RouteAverage `json:"top_routes"`
}

type Aggregator struct {
	metrics MetricsSource
}

func NewAggregator(metrics MetricsSource) *Aggregator {
	return &Aggregator{metrics: metrics}
}

// GetInsights answers one windowed query against the stored series: the raw
// series, the window mean, the previous-window comparison when requested, and
// the top routes by mean over the current window.
func (a *Aggregator) GetInsights(ctx context.Context, query Query) (*Result, error) {
	route := query.Route
	if route == "" {
		route = transit.AllRoutes
	}

	rangeLabel, rangeDuration := ParseRange(query.Range)

	now := time.Now().Unix()
	from := now - int64(rangeDuration.Seconds())

	series, err := a.metrics.Series(ctx, route, from, now)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Route:      route,
		Range:      rangeLabel,
		Compare:    "none",
		Series:     series,
		CurrentAvg: roundedMean(series),
	}

	if query.Compare == "previous" {
		result.Compare = "previous"

		previousSeries, err := a.metrics.Series(ctx, route, from-int64(rangeDuration.Seconds()), from-1)
		if err != nil {
			return nil, err
		}

		applyComparison(result, series, previousSeries)
	}

	if route == transit.AllRoutes {
		averages, err := a.metrics.AveragesByRoute(ctx, from, now)
		if err != nil {
			return nil, err
		}

		result.TopRoutes = TopRoutes(averages, topRouteLimit)
	} else {
		result.TopRoutes = []RouteAverage{{RouteID: route, Average: result.CurrentAvg}}
	}

	return result, nil
}

// ParseRange maps a range label onto a duration, substituting the one hour
// default for anything it does not recognise.
func ParseRange(value string) (string, time.Duration) {
	switch value {
	case "15m":
		return value, 15 * time.Minute
	case "1h":
		return value, time.Hour
	case "6h":
		return value, 6 * time.Hour
	case "24h":
		return value, 24 * time.Hour
	default:
		return "1h", time.Hour
	}
}

// applyComparison fills in the previous-window average and deltas. An empty
// previous window yields no comparison at all; a zero previous average yields
// a delta but no percentage, rather than a division blowup.
func applyComparison(result *Result, current []transit.MetricsSnapshot, previous []transit.MetricsSnapshot) {
	if len(previous) == 0 {
		return
	}

	currentMean := mean(current)
	previousMean := mean(previous)

	previousAvg := roundToInt(previousMean)
	delta := roundToInt(currentMean - previousMean)

	result.PreviousAvg = &previousAvg
	result.Delta = &delta

	if previousMean != 0 {
		deltaPercent := roundToInt(100 * (currentMean - previousMean) / previousMean)
		result.DeltaPercent = &deltaPercent
	}
}

// TopRoutes ranks routes by mean vehicle count, highest first, route id as
// the tie breaker, limited to n entries.
func TopRoutes(averages map[string]float64, n int) []RouteAverage {
	ranked := make([]RouteAverage, 0, len(averages))
	means := make(map[string]float64, len(averages))

	for routeID, average := range averages {
		ranked = append(ranked, RouteAverage{RouteID: routeID, Average: roundToInt(average)})
		means[routeID] = average
	}

	slices.SortStableFunc(ranked, func(a, b RouteAverage) int {
		if means[a.RouteID] != means[b.RouteID] {
			if means[a.RouteID] > means[b.RouteID] {
				return -1
			}
			return 1
		}

		if a.RouteID < b.RouteID {
			return -1
		} else if a.RouteID > b.RouteID {
			return 1
		}
		return 0
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

func mean(series []transit.MetricsSnapshot) float64 {
	if len(series) == 0 {
		return 0
	}

	total := 0
	for _, snapshot := range series {
		total += snapshot.VehicleCount
	}

	return float64(total) / float64(len(series))
}

func roundedMean(series []transit.MetricsSnapshot) int {
	return roundToInt(mean(series))
}

func roundToInt(value float64) int {
	return int(math.Round(value))
}
