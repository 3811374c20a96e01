package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
)

// GetAbsences lists doctor absences. Doctors only see their own.
func GetAbsences(c *fiber.Ctx) error {
	scope := ScopeFromCtx(c)
	query := db.DB.Preload("Doctor").Order("start_date")
	if doctorID, limited := scope.DoctorFilter(); limited {
		query = query.Where("doctor_id = ?", doctorID)
	} else if filter := c.Query("doctor_id"); filter != "" {
		query = query.Where("doctor_id = ?", filter)
	}
	var absences []models.DoctorAbsence
	if err := query.Find(&absences).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get absences",
		})
	}
	return c.JSON(absences)
}

// CreateAbsence records a vacation, sickness or congress date range
func CreateAbsence(c *fiber.Ctx) error {
	absence := new(models.DoctorAbsence)
	if err := c.BodyParser(absence); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	scope := ScopeFromCtx(c)
	if absence.DoctorID == 0 && scope.IsDoctor() {
		absence.DoctorID = scope.UserID
	}
	if absence.DoctorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "doctor_id is required",
		})
	}
	if !scope.CanActFor(absence.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own absences",
		})
	}
	if absence.StartDate.IsZero() || absence.EndDate.IsZero() || absence.EndDate.Before(absence.StartDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_date must not be after end_date",
		})
	}
	absence.Active = true
	if err := db.DB.Create(absence).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create absence",
		})
	}
	Audit.Record(scope.UserID, "absence_create", nil, map[string]interface{}{
		"absence_id": absence.ID,
		"doctor_id":  absence.DoctorID,
		"start_date": absence.StartDate.Format("2006-01-02"),
		"end_date":   absence.EndDate.Format("2006-01-02"),
	})
	return c.Status(fiber.StatusCreated).JSON(absence)
}

// UpdateAbsence updates a recorded absence
func UpdateAbsence(c *fiber.Ctx) error {
	id := c.Params("id")
	var absence models.DoctorAbsence
	if err := db.DB.First(&absence, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Absence not found",
		})
	}
	scope := ScopeFromCtx(c)
	if !scope.CanActFor(absence.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own absences",
		})
	}
	if err := c.BodyParser(&absence); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if absence.EndDate.Before(absence.StartDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_date must not be after end_date",
		})
	}
	if err := db.DB.Save(&absence).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update absence",
		})
	}
	Audit.Record(scope.UserID, "absence_update", nil, map[string]interface{}{
		"absence_id": absence.ID,
		"doctor_id":  absence.DoctorID,
	})
	return c.JSON(absence)
}

// DeleteAbsence removes a recorded absence
func DeleteAbsence(c *fiber.Ctx) error {
	id := c.Params("id")
	var absence models.DoctorAbsence
	if err := db.DB.First(&absence, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Absence not found",
		})
	}
	scope := ScopeFromCtx(c)
	if !scope.CanActFor(absence.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own absences",
		})
	}
	if err := db.DB.Delete(&absence).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete absence",
		})
	}
	Audit.Record(scope.UserID, "absence_delete", nil, map[string]interface{}{
		"absence_id": absence.ID,
		"doctor_id":  absence.DoctorID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
