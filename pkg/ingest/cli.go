package ingest

import (
	"github.com/rs/zerolog/log"
	"github.com/transitpulse/transitpulse/pkg/cache"
	"github.com/transitpulse/transitpulse/pkg/database"
	"github.com/transitpulse/transitpulse/pkg/redis_client"
	"github.com/transitpulse/transitpulse/pkg/reference"
	"github.com/transitpulse/transitpulse/pkg/store"
	"github.com/transitpulse/transitpulse/pkg/util"
	"github.com/urfave/cli/v2"
)

const defaultStopsFile = "data/stops.json"
const defaultTerminalsFile = "data/terminals.yaml"
const defaultFeedsFile = "data/feeds.yaml"

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Ingests realtime vehicle position feeds",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the feed ingestion scheduler",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Value: defaultCycleInterval,
						Usage: "period between ingestion cycles",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					env := util.GetEnvironmentVariables()

					stopsFile := defaultStopsFile
					if env["TRANSITPULSE_STOPS_FILE"] != "" {
						stopsFile = env["TRANSITPULSE_STOPS_FILE"]
					}
					terminalsFile := defaultTerminalsFile
					if env["TRANSITPULSE_TERMINALS_FILE"] != "" {
						terminalsFile = env["TRANSITPULSE_TERMINALS_FILE"]
					}
					feedsFile := defaultFeedsFile
					if env["TRANSITPULSE_FEEDS_FILE"] != "" {
						feedsFile = env["TRANSITPULSE_FEEDS_FILE"]
					}

					stops, err := reference.LoadStops(stopsFile)
					if err != nil {
						return err
					}
					log.Info().Int("stops", stops.Len()).Msg("Loaded stop coordinate table")

					terminals, err := reference.LoadTerminals(terminalsFile)
					if err != nil {
						return err
					}

					endpoints, err := LoadEndpoints(feedsFile)
					if err != nil {
						return err
					}

					orchestrator := &Orchestrator{
						Endpoints: endpoints,
						Fetcher:   NewFetcher(defaultFetchTimeout),
						Resolver:  NewResolver(stops, terminals),
						Snapshots: store.NewSnapshots(database.GlobalGorm),
						Metrics:   store.NewMetrics(database.GlobalGorm),
						Cache:     cache.NewVehicles(),
						Interval:  c.Duration("interval"),
					}

					orchestrator.Run()

					return nil
				},
			},
		},
	}
}
