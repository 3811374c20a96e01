package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/controllers"
	"github.com/praxismed/praxis-scheduler/middleware"
)

// SetupRBACRoutes configures role and permission management routes.
// Everything here is admin only.
func SetupRBACRoutes(app *fiber.App) {
	rbac := app.Group("/rbac", middleware.Protected(), middleware.RequireRole("admin"))

	rbac.Post("/roles", controllers.CreateRole)
	rbac.Get("/roles", controllers.GetRoles)
	rbac.Post("/permissions", controllers.CreatePermission)
	rbac.Get("/permissions", controllers.GetPermissions)
	rbac.Post("/assign-role", controllers.AssignRoleToUser)
	rbac.Post("/assign-permission", controllers.AssignPermissionToRole)
}
