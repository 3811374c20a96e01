package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
)

// GetAllPatients lists patients; ?q= searches by name.
func GetAllPatients(c *fiber.Ctx) error {
	query := db.DB.Order("last_name, first_name")
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("last_name ILIKE ? OR first_name ILIKE ?", pattern, pattern)
	}
	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get patients",
		})
	}
	return c.JSON(patients)
}

// GetPatient retrieves a patient by ID
func GetPatient(c *fiber.Ctx) error {
	id := c.Params("id")
	var patient models.Patient
	if err := db.DB.First(&patient, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient not found",
		})
	}
	return c.JSON(patient)
}

// CreatePatient registers a new patient
func CreatePatient(c *fiber.Ctx) error {
	patient := new(models.Patient)
	if err := c.BodyParser(patient); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if patient.LastName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "last_name is required",
		})
	}
	if err := db.DB.Create(patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create patient",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "patient_create", &patient.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(patient)
}

// UpdatePatient updates patient master data
func UpdatePatient(c *fiber.Ctx) error {
	id := c.Params("id")
	var patient models.Patient
	if err := db.DB.First(&patient, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient not found",
		})
	}
	if err := c.BodyParser(&patient); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if err := db.DB.Save(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update patient",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "patient_update", &patient.ID, nil)
	return c.JSON(patient)
}

// DeletePatient removes a patient record
func DeletePatient(c *fiber.Ctx) error {
	id := c.Params("id")
	var patient models.Patient
	if err := db.DB.First(&patient, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient not found",
		})
	}
	if err := db.DB.Delete(&patient).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete patient",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "patient_delete", &patient.ID, nil)
	return c.SendStatus(fiber.StatusNoContent)
}
