package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
)

// GetAllResources lists rooms and devices; ?type=room|device filters.
func GetAllResources(c *fiber.Ctx) error {
	query := db.DB.Order("type, name")
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	var resources []models.Resource
	if err := query.Find(&resources).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get resources",
		})
	}
	return c.JSON(resources)
}

// GetResource retrieves a specific resource by ID
func GetResource(c *fiber.Ctx) error {
	id := c.Params("id")
	var resource models.Resource
	if err := db.DB.First(&resource, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resource not found",
		})
	}
	return c.JSON(resource)
}

// CreateResource creates a new room or device
func CreateResource(c *fiber.Ctx) error {
	resource := new(models.Resource)
	if err := c.BodyParser(resource); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if resource.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	if resource.Type != models.ResourceRoom && resource.Type != models.ResourceDevice {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be room or device",
		})
	}
	resource.Active = true
	if err := db.DB.Create(resource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create resource",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "resource_create", nil, map[string]interface{}{
		"resource_id": resource.ID,
		"type":        resource.Type,
	})
	return c.Status(fiber.StatusCreated).JSON(resource)
}

// UpdateResource updates an existing resource
func UpdateResource(c *fiber.Ctx) error {
	id := c.Params("id")
	var resource models.Resource
	if err := db.DB.First(&resource, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resource not found",
		})
	}
	if err := c.BodyParser(&resource); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if resource.Type != models.ResourceRoom && resource.Type != models.ResourceDevice {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be room or device",
		})
	}
	if err := db.DB.Save(&resource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update resource",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "resource_update", nil, map[string]interface{}{
		"resource_id": resource.ID,
	})
	return c.JSON(resource)
}

// DeleteResource deactivates and deletes a resource. Historic bookings
// keep their join rows; only future use is blocked.
func DeleteResource(c *fiber.Ctx) error {
	id := c.Params("id")
	var resource models.Resource
	if err := db.DB.First(&resource, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Resource not found",
		})
	}
	if err := db.DB.Delete(&resource).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete resource",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "resource_delete", nil, map[string]interface{}{
		"resource_id": resource.ID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
