package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
)

// GetBreaks lists breaks. Doctors see their own plus practice-wide
// breaks; admins and receptionists see everything.
func GetBreaks(c *fiber.Ctx) error {
	scope := ScopeFromCtx(c)
	query := db.DB.Preload("Doctor").Order("date, start_time")
	if doctorID, limited := scope.DoctorFilter(); limited {
		query = query.Where("doctor_id = ? OR doctor_id IS NULL", doctorID)
	} else if filter := c.Query("doctor_id"); filter != "" {
		query = query.Where("doctor_id = ? OR doctor_id IS NULL", filter)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	var breaks []models.DoctorBreak
	if err := query.Find(&breaks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get breaks",
		})
	}
	return c.JSON(breaks)
}

// CreateBreak blocks a time-of-day window on one date. Leaving
// doctor_id empty creates a practice-wide break; only admins and
// receptionists may do that.
func CreateBreak(c *fiber.Ctx) error {
	brk := new(models.DoctorBreak)
	if err := c.BodyParser(brk); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	scope := ScopeFromCtx(c)
	if brk.DoctorID == nil && scope.IsDoctor() {
		id := scope.UserID
		brk.DoctorID = &id
	}
	if brk.DoctorID != nil && !scope.CanActFor(*brk.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own breaks",
		})
	}
	if brk.Date.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date is required",
		})
	}
	if !validClockPair(brk.StartTime, brk.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time and end_time must be HH:MM with start before end",
		})
	}
	brk.Active = true
	if err := db.DB.Create(brk).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create break",
		})
	}
	meta := map[string]interface{}{
		"break_id": brk.ID,
		"date":     brk.Date.Format("2006-01-02"),
	}
	if brk.DoctorID != nil {
		meta["doctor_id"] = *brk.DoctorID
	}
	Audit.Record(scope.UserID, "break_create", nil, meta)
	return c.Status(fiber.StatusCreated).JSON(brk)
}

// UpdateBreak updates a break window
func UpdateBreak(c *fiber.Ctx) error {
	id := c.Params("id")
	var brk models.DoctorBreak
	if err := db.DB.First(&brk, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Break not found",
		})
	}
	scope := ScopeFromCtx(c)
	if brk.DoctorID != nil && !scope.CanActFor(*brk.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own breaks",
		})
	}
	if brk.DoctorID == nil && scope.IsDoctor() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Practice-wide breaks are managed by the front desk",
		})
	}
	if err := c.BodyParser(&brk); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if !validClockPair(brk.StartTime, brk.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time and end_time must be HH:MM with start before end",
		})
	}
	if err := db.DB.Save(&brk).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update break",
		})
	}
	Audit.Record(scope.UserID, "break_update", nil, map[string]interface{}{
		"break_id": brk.ID,
	})
	return c.JSON(brk)
}

// DeleteBreak removes a break window
func DeleteBreak(c *fiber.Ctx) error {
	id := c.Params("id")
	var brk models.DoctorBreak
	if err := db.DB.First(&brk, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Break not found",
		})
	}
	scope := ScopeFromCtx(c)
	if brk.DoctorID != nil && !scope.CanActFor(*brk.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own breaks",
		})
	}
	if brk.DoctorID == nil && scope.IsDoctor() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Practice-wide breaks are managed by the front desk",
		})
	}
	if err := db.DB.Delete(&brk).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete break",
		})
	}
	Audit.Record(scope.UserID, "break_delete", nil, map[string]interface{}{
		"break_id": brk.ID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
