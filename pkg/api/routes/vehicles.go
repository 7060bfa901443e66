package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/transitpulse/transitpulse/pkg/cache"
	"github.com/transitpulse/transitpulse/pkg/database"
	"github.com/transitpulse/transitpulse/pkg/insights"
	"github.com/transitpulse/transitpulse/pkg/store"
)

var snapshots *store.Snapshots
var vehiclesCache *cache.Vehicles
var aggregator *insights.Aggregator

func VehiclesRouter(router fiber.Router) {
	snapshots = store.NewSnapshots(database.GlobalGorm)
	vehiclesCache = cache.NewVehicles()
	aggregator = insights.NewAggregator(store.NewMetrics(database.GlobalGorm))

	router.Get("/", listVehicles)
	router.Get("/insights", getVehicleInsights)
}

// listVehicles serves the current vehicle list through the short TTL cache,
// falling back to the snapshot store and repopulating on a miss.
func listVehicles(c *fiber.Ctx) error {
	if vehicles, found := vehiclesCache.Get(c.Context()); found {
		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(vehicles),
			"data":    vehicles,
		})
	}

	vehicles, err := snapshots.FindAll(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list vehicles")

		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Could not load current vehicles",
		})
	}

	if err := vehiclesCache.Store(c.Context(), vehicles); err != nil {
		log.Error().Err(err).Msg("Failed to refresh vehicle cache")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(vehicles),
		"data":    vehicles,
	})
}

func getVehicleInsights(c *fiber.Ctx) error {
	query := insights.Query{
		Route:   c.Query("route", "ALL"),
		Range:   c.Query("range", "1h"),
		Compare: c.Query("compare", "previous"),
	}

	result, err := aggregator.GetInsights(c.Context(), query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute vehicle insights")

		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Could not compute insights",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}
