package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/controllers"
	"github.com/praxismed/praxis-scheduler/middleware"
)

// SetupAvailabilityRoutes configures the slot suggestion endpoint
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/availability", middleware.Protected())
	availability.Get("/suggestions", controllers.GetSuggestions)
}
