package alerts

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/transitpulse/transitpulse/pkg/database"
	"github.com/transitpulse/transitpulse/pkg/ingest"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultRefreshRate = 60 * time.Second

// Tracker periodically syncs the all-alerts feed into the service_alerts
// collection. Stale alerts age out through the collection's TTL index rather
// than an explicit prune.
type Tracker struct {
	FeedURL     string
	RefreshRate time.Duration

	fetcher *ingest.Fetcher
}

func NewTracker(feedURL string, refreshRate time.Duration) *Tracker {
	if refreshRate == 0 {
		refreshRate = defaultRefreshRate
	}

	return &Tracker{
		FeedURL:     feedURL,
		RefreshRate: refreshRate,
		fetcher:     ingest.NewFetcher(0),
	}
}

// Run blocks forever, syncing once per refresh period.
func (t *Tracker) Run() {
	log.Info().Str("feed", t.FeedURL).Dur("refresh", t.RefreshRate).Msg("Starting service alert tracker")

	for {
		startTime := time.Now()

		t.Sync(context.Background())

		executionDuration := time.Since(startTime)
		waitTime := t.RefreshRate - executionDuration

		if waitTime.Seconds() > 0 {
			time.Sleep(waitTime)
		}
	}
}

func (t *Tracker) Sync(ctx context.Context) {
	entities, err := t.fetcher.Fetch(ctx, t.FeedURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch service alert feed")
		return
	}

	serviceAlerts := ParseAlerts(entities, time.Now())
	if len(serviceAlerts) == 0 {
		return
	}

	var updateOperations []mongo.WriteModel
	for _, serviceAlert := range serviceAlerts {
		bsonRep, _ := bson.Marshal(bson.M{"$set": serviceAlert})

		updateModel := mongo.NewUpdateOneModel()
		updateModel.SetFilter(bson.M{"primaryidentifier": serviceAlert.PrimaryIdentifier})
		updateModel.SetUpdate(bsonRep)
		updateModel.SetUpsert(true)

		updateOperations = append(updateOperations, updateModel)
	}

	serviceAlertsCollection := database.GetCollection("service_alerts")

	_, err = serviceAlertsCollection.BulkWrite(ctx, updateOperations, &options.BulkWriteOptions{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk write service alerts")
		return
	}

	log.Info().Int("alerts", len(serviceAlerts)).Msg("Synced service alerts")
}
