package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/controllers"
	"github.com/praxismed/praxis-scheduler/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected())

	appointment.Get("/", middleware.RequirePermission("appointments", "read"), controllers.GetAllAppointments)
	appointment.Get("/:id", middleware.RequirePermission("appointments", "read"), controllers.GetAppointment)
	appointment.Post("/", middleware.RequirePermission("appointments", "create"), controllers.CreateAppointment)
	appointment.Patch("/:id/reschedule", middleware.RequirePermission("appointments", "update"), controllers.RescheduleAppointment)
	appointment.Patch("/:id/status", middleware.RequirePermission("appointments", "update"), controllers.UpdateAppointmentStatus)
	appointment.Delete("/:id", middleware.RequirePermission("appointments", "delete"), controllers.DeleteAppointment)
}
