package alerts

import (
	"github.com/transitpulse/transitpulse/pkg/database"
	"github.com/transitpulse/transitpulse/pkg/util"
	"github.com/urfave/cli/v2"
)

const defaultAlertFeedURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/camsys/all-alerts"

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Service alert feed sync",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the service alert tracker",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "refresh",
						Value: defaultRefreshRate,
						Usage: "period between alert feed syncs",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.ConnectMongoDB(); err != nil {
						return err
					}

					feedURL := defaultAlertFeedURL

					env := util.GetEnvironmentVariables()
					if env["TRANSITPULSE_ALERT_FEED_URL"] != "" {
						feedURL = env["TRANSITPULSE_ALERT_FEED_URL"]
					}

					tracker := NewTracker(feedURL, c.Duration("refresh"))
					tracker.Run()

					return nil
				},
			},
		},
	}
}
