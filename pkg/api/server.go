package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/transitpulse/transitpulse/pkg/api/routes"
)

func SetupServer(listen string) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/api")

	group.Get("/health", routes.Health)

	routes.VehiclesRouter(group.Group("/vehicles"))
	routes.AlertsRouter(group.Group("/alerts"))

	return webApp.Listen(listen)
}
