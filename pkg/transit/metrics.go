package transit

// MetricsSnapshot is one timestamped vehicle count for a route, or for the
// synthetic ALL route summing every vehicle seen that cycle. The series is
// append-only; the upsert key only exists so a re-run of the same tick stays
// idempotent.
type MetricsSnapshot struct {
	SnapshotTS   int64  `gorm:"column:snapshot_ts;primaryKey;autoIncrement:false" json:"snapshot_ts"`
	RouteID      string `gorm:"column:route_id;primaryKey" json:"route_id"`
	VehicleCount int    `gorm:"column:vehicle_count" json:"vehicle_count"`
}

func (MetricsSnapshot) TableName() string {
	return "vehicle_metrics"
}

const AllRoutes = "ALL"

// CountByRoute tallies a merged batch per route id, plus the ALL total. The
// ALL entry is always present so the series has a row even on empty cycles.
func CountByRoute(batch []VehicleSnapshot) map[string]int {
	counts := map[string]int{
		AllRoutes: len(batch),
	}

	for _, snapshot := range batch {
		counts[snapshot.RouteID] += 1
	}

	return counts
}
