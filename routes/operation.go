package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/controllers"
	"github.com/praxismed/praxis-scheduler/middleware"
)

// SetupOperationRoutes configures all operation related routes
func SetupOperationRoutes(app *fiber.App) {
	operation := app.Group("/operations", middleware.Protected())

	operation.Get("/", middleware.RequirePermission("operations", "read"), controllers.GetAllOperations)
	operation.Get("/:id", middleware.RequirePermission("operations", "read"), controllers.GetOperation)
	operation.Post("/", middleware.RequirePermission("operations", "create"), controllers.CreateOperation)
	operation.Patch("/:id/reschedule", middleware.RequirePermission("operations", "update"), controllers.RescheduleOperation)
	operation.Patch("/:id/status", middleware.RequirePermission("operations", "update"), controllers.UpdateOperationStatus)
	operation.Delete("/:id", middleware.RequirePermission("operations", "delete"), controllers.DeleteOperation)
}
