package ingest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/transitpulse/transitpulse/pkg/transit"
)

const defaultCycleInterval = 10 * time.Second

type SnapshotStore interface {
	UpsertBatch(ctx context.Context, batch []transit.VehicleSnapshot) error
	PruneOld(ctx context.Context) (int64, error)
}

type MetricsRecorder interface {
	RecordCycle(ctx context.Context, batch []transit.VehicleSnapshot, tick int64) error
}

type VehicleCache interface {
	Store(ctx context.Context, batch []transit.VehicleSnapshot) error
}

// Orchestrator drives the fetch, merge and persist pipeline on a fixed
// schedule. At most one cycle is ever in flight; a tick that lands while the
// previous cycle is still persisting is skipped, not queued.
type Orchestrator struct {
	Endpoints []FeedEndpoint
	Fetcher   *Fetcher
	Resolver  *Resolver
	Snapshots SnapshotStore
	Metrics   MetricsRecorder
	Cache     VehicleCache
	Interval  time.Duration

	cycleRunning atomic.Bool
}

// Run starts the scheduler, with one immediate cycle before the first tick.
// It blocks forever.
func (o *Orchestrator) Run() {
	if o.Interval == 0 {
		o.Interval = defaultCycleInterval
	}

	log.Info().
		Int("feeds", len(o.Endpoints)).
		Dur("interval", o.Interval).
		Msg("Starting ingestion scheduler")

	o.startCycle()

	for range time.Tick(o.Interval) {
		o.startCycle()
	}
}

func (o *Orchestrator) startCycle() {
	if !o.cycleRunning.CompareAndSwap(false, true) {
		log.Warn().Msg("Previous ingestion cycle still running, skipping tick")
		return
	}

	go func() {
		defer o.cycleRunning.Store(false)
		o.RunCycle(context.Background())
	}()
}

// RunCycle performs one complete fetch, merge and persist pass. Every feed is
// fetched concurrently and allowed to fail on its own; nothing in here aborts
// the cycle or escapes to the scheduler.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	startTime := time.Now()

	feeds := make([][]*gtfs.FeedEntity, len(o.Endpoints))

	p := pool.New()
	for i, endpoint := range o.Endpoints {
		p.Go(func() {
			entities, err := o.Fetcher.Fetch(ctx, endpoint.URL)
			if err != nil {
				log.Error().Err(err).Str("feed", endpoint.Name).Msg("Failed to fetch feed")
				return
			}

			feeds[i] = entities
		})
	}
	p.Wait()

	batch := Merge(feeds, o.Resolver, startTime)
	tick := startTime.Truncate(o.Interval).Unix()

	if err := o.Snapshots.UpsertBatch(ctx, batch); err != nil {
		log.Error().Err(err).Int("batch", len(batch)).Msg("Failed to persist vehicle snapshots")
	} else if len(batch) > 0 {
		if err := o.Cache.Store(ctx, batch); err != nil {
			log.Error().Err(err).Msg("Failed to refresh vehicle cache")
		}
	}

	// Metrics are best effort telemetry in their own transaction; a failure
	// here never rolls back the snapshot write.
	if err := o.Metrics.RecordCycle(ctx, batch, tick); err != nil {
		log.Error().Err(err).Msg("Failed to record cycle metrics")
	}

	// Prune runs even on an empty cycle so a feed outage drains the store.
	removed, err := o.Snapshots.PruneOld(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to prune stale vehicle snapshots")
	} else if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Pruned stale vehicle snapshots")
	}

	log.Info().
		Int("vehicles", len(batch)).
		Str("duration", time.Since(startTime).String()).
		Msg("Completed ingestion cycle")
}
