package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/transitpulse/transitpulse/pkg/database"
	"github.com/transitpulse/transitpulse/pkg/transit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func AlertsRouter(router fiber.Router) {
	router.Get("/", listServiceAlerts)
}

func listServiceAlerts(c *fiber.Ctx) error {
	serviceAlertsCollection := database.GetCollection("service_alerts")

	cursor, err := serviceAlertsCollection.Find(
		context.Background(),
		bson.M{},
		options.Find().SetSort(bson.M{"updatedat": -1}),
	)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Could not load service alerts",
		})
	}

	serviceAlerts := []transit.ServiceAlert{}

	for cursor.Next(context.TODO()) {
		var serviceAlert transit.ServiceAlert
		if err := cursor.Decode(&serviceAlert); err != nil {
			log.Error().Err(err).Msg("Failed to decode Service Alert")
			continue
		}

		serviceAlerts = append(serviceAlerts, serviceAlert)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(serviceAlerts),
		"data":    serviceAlerts,
	})
}
