package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/controllers"
	"github.com/praxismed/praxis-scheduler/middleware"
)

// SetupScheduleRoutes configures the scheduling rule endpoints:
// practice hours, doctor hours, absences, breaks, resources and
// patients.
func SetupScheduleRoutes(app *fiber.App) {
	practice := app.Group("/practice-hours", middleware.Protected())
	practice.Get("/", controllers.GetPracticeHours)
	practice.Post("/", middleware.RequireRole("admin"), controllers.CreatePracticeHours)
	practice.Put("/:id", middleware.RequireRole("admin"), controllers.UpdatePracticeHours)
	practice.Delete("/:id", middleware.RequireRole("admin"), controllers.DeletePracticeHours)

	doctor := app.Group("/doctor-hours", middleware.Protected())
	doctor.Get("/", middleware.RequirePermission("schedule", "read"), controllers.GetDoctorHours)
	doctor.Post("/", middleware.RequirePermission("schedule", "update"), controllers.CreateDoctorHours)
	doctor.Put("/:id", middleware.RequirePermission("schedule", "update"), controllers.UpdateDoctorHours)
	doctor.Delete("/:id", middleware.RequirePermission("schedule", "update"), controllers.DeleteDoctorHours)

	absence := app.Group("/absences", middleware.Protected())
	absence.Get("/", middleware.RequirePermission("schedule", "read"), controllers.GetAbsences)
	absence.Post("/", middleware.RequirePermission("schedule", "update"), controllers.CreateAbsence)
	absence.Put("/:id", middleware.RequirePermission("schedule", "update"), controllers.UpdateAbsence)
	absence.Delete("/:id", middleware.RequirePermission("schedule", "update"), controllers.DeleteAbsence)

	brk := app.Group("/breaks", middleware.Protected())
	brk.Get("/", middleware.RequirePermission("schedule", "read"), controllers.GetBreaks)
	brk.Post("/", middleware.RequirePermission("schedule", "update"), controllers.CreateBreak)
	brk.Put("/:id", middleware.RequirePermission("schedule", "update"), controllers.UpdateBreak)
	brk.Delete("/:id", middleware.RequirePermission("schedule", "update"), controllers.DeleteBreak)

	resource := app.Group("/resources", middleware.Protected())
	resource.Get("/", controllers.GetAllResources)
	resource.Get("/:id", controllers.GetResource)
	resource.Post("/", middleware.RequireRole("admin"), controllers.CreateResource)
	resource.Put("/:id", middleware.RequireRole("admin"), controllers.UpdateResource)
	resource.Delete("/:id", middleware.RequireRole("admin"), controllers.DeleteResource)

	patient := app.Group("/patients", middleware.Protected())
	patient.Get("/", middleware.RequirePermission("patients", "read"), controllers.GetAllPatients)
	patient.Get("/:id", middleware.RequirePermission("patients", "read"), controllers.GetPatient)
	patient.Post("/", middleware.RequirePermission("patients", "create"), controllers.CreatePatient)
	patient.Put("/:id", middleware.RequirePermission("patients", "update"), controllers.UpdatePatient)
	patient.Delete("/:id", middleware.RequirePermission("patients", "delete"), controllers.DeletePatient)
}
