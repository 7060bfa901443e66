package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/transitpulse/transitpulse/pkg/database"
)

func Health(c *fiber.Ctx) error {
	sqlDB, err := database.GlobalGorm.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"status": "DOWN",
			"error":  "Database connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
