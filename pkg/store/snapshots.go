package store

import (
	"context"
	"time"

	"github.com/transitpulse/transitpulse/pkg/transit"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recent window for reads and retention threshold for pruning, both measured
// against the producer reported timestamp.
const recentWindow = 300 * time.Second
const retentionWindow = 600 * time.Second

// Snapshots persists the current-state vehicle table. One row per trip id;
// each cycle's batch overwrites every mutable field on conflict.
type Snapshots struct {
	db *gorm.DB
}

func NewSnapshots(db *gorm.DB) *Snapshots {
	return &Snapshots{db: db}
}

// UpsertBatch writes one merged batch in a single transaction. Either every
// record lands or none do. An empty batch does not open a transaction.
func (s *Snapshots) UpsertBatch(ctx context.Context, batch []transit.VehicleSnapshot) error {
	if len(batch) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "trip_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"route_id", "lat", "lon", "timestamp",
				"stop_name", "current_status", "direction", "destination", "consist",
			}),
		}).Create(&batch).Error
	})
}

// FindAll returns every snapshot seen within the recent window, ordered by
// route id.
func (s *Snapshots) FindAll(ctx context.Context) ([]transit.VehicleSnapshot, error) {
	cutoff := time.Now().Add(-recentWindow).Unix()

	snapshots := []transit.VehicleSnapshot{}
	err := s.db.WithContext(ctx).
		Where("timestamp > ?", cutoff).
		Order("route_id asc").
		Find(&snapshots).Error

	return snapshots, err
}

// PruneOld deletes every row older than the retention threshold and returns
// the number removed. It runs every cycle whether or not new data arrived, so
// the store drains naturally during a feed outage.
func (s *Snapshots) PruneOld(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-retentionWindow).Unix()

	result := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&transit.VehicleSnapshot{})

	return result.RowsAffected, result.Error
}
