package handlers

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/Pranjal095/Pahani-Project/database"
)

// Health reports service and database health for monitoring
func Health(c *fiber.Ctx) error {
	status := "healthy"
	statusCode := 200

	// Check database if using it
	if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			status = "unhealthy"
			statusCode = 503
		}
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"database": status == "healthy",
		},
	})
}
