package store

import (
	"context"

	"github.com/transitpulse/transitpulse/pkg/transit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Metrics owns the append-only per-route vehicle count series. Writes happen
// in their own transaction so a metrics failure never disturbs the snapshot
// table.
type Metrics struct {
	db *gorm.DB
}

func NewMetrics(db *gorm.DB) *Metrics {
	return &Metrics{db: db}
}

// RecordCycle upserts one count row per observed route plus the ALL total at
// the given tick. Re-running the same tick is safe; the conflict target makes
// the write idempotent.
func (m *Metrics) RecordCycle(ctx context.Context, batch []transit.VehicleSnapshot, tick int64) error {
	counts := transit.CountByRoute(batch)

	rows := make([]transit.MetricsSnapshot, 0, len(counts))
	for routeID, count := range counts {
		rows = append(rows, transit.MetricsSnapshot{
			SnapshotTS:   tick,
			RouteID:      routeID,
			VehicleCount: count,
		})
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "snapshot_ts"}, {Name: "route_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"vehicle_count"}),
		}).Create(&rows).Error
	})
}

// Series returns the count rows for one route within [from, to], oldest
// first.
func (m *Metrics) Series(ctx context.Context, routeID string, from int64, to int64) ([]transit.MetricsSnapshot, error) {
	series := []transit.MetricsSnapshot{}
	err := m.db.WithContext(ctx).
		Where("route_id = ? AND snapshot_ts >= ? AND snapshot_ts <= ?", routeID, from, to).
		Order("snapshot_ts asc").
		Find(&series).Error

	return series, err
}

type routeAverageRow struct {
	RouteID string
	Average float64
}

// AveragesByRoute returns the mean vehicle count per real route (the ALL
// aggregate excluded) within [from, to].
func (m *Metrics) AveragesByRoute(ctx context.Context, from int64, to int64) (map[string]float64, error) {
	rows := []routeAverageRow{}
	err := m.db.WithContext(ctx).
		Model(&transit.MetricsSnapshot{}).
		Select("route_id, AVG(vehicle_count) AS average").
		Where("route_id <> ? AND snapshot_ts >= ? AND snapshot_ts <= ?", transit.AllRoutes, from, to).
		Group("route_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	averages := make(map[string]float64, len(rows))
	for _, row := range rows {
		averages[row.RouteID] = row.Average
	}

	return averages, nil
}
