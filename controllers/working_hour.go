package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
)

// validClockPair rejects rules whose times are not "HH:MM" or whose
// window is empty or inverted.
func validClockPair(start, end string) bool {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}
	return s.Before(e)
}

// GetPracticeHours retrieves the clinic-wide opening hours
func GetPracticeHours(c *fiber.Ctx) error {
	var hours []models.PracticeHours
	if err := db.DB.Order("weekday, start_time").Find(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get practice hours",
		})
	}
	return c.JSON(hours)
}

// CreatePracticeHours creates a new opening window for one weekday
func CreatePracticeHours(c *fiber.Ctx) error {
	hours := new(models.PracticeHours)
	if err := c.BodyParser(hours); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if hours.Weekday < models.Sunday || hours.Weekday > models.Saturday {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Weekday must be between 0 (Sunday) and 6 (Saturday)",
		})
	}
	if !validClockPair(hours.StartTime, hours.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time and end_time must be HH:MM with start before end",
		})
	}
	hours.Active = true
	if err := db.DB.Create(hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create practice hours",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "practice_hours_create", nil, map[string]interface{}{
		"practice_hours_id": hours.ID,
		"weekday":           hours.Weekday,
	})
	return c.Status(fiber.StatusCreated).JSON(hours)
}

// UpdatePracticeHours updates an existing opening window
func UpdatePracticeHours(c *fiber.Ctx) error {
	id := c.Params("id")
	var hours models.PracticeHours
	if err := db.DB.First(&hours, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Practice hours not found",
		})
	}
	if err := c.BodyParser(&hours); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if !validClockPair(hours.StartTime, hours.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time and end_time must be HH:MM with start before end",
		})
	}
	if err := db.DB.Save(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update practice hours",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "practice_hours_update", nil, map[string]interface{}{
		"practice_hours_id": hours.ID,
	})
	return c.JSON(hours)
}

// DeletePracticeHours deletes an opening window by ID
func DeletePracticeHours(c *fiber.Ctx) error {
	id := c.Params("id")
	var hours models.PracticeHours
	if err := db.DB.First(&hours, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Practice hours not found",
		})
	}
	if err := db.DB.Delete(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete practice hours",
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "practice_hours_delete", nil, map[string]interface{}{
		"practice_hours_id": hours.ID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// GetDoctorHours lists doctor working hours. Doctors only see their
// own; admins and receptionists may filter with ?doctor_id=.
func GetDoctorHours(c *fiber.Ctx) error {
	scope := ScopeFromCtx(c)
	query := db.DB.Preload("Doctor").Order("doctor_id, weekday, start_time")
	if doctorID, limited := scope.DoctorFilter(); limited {
		query = query.Where("doctor_id = ?", doctorID)
	} else if filter := c.Query("doctor_id"); filter != "" {
		query = query.Where("doctor_id = ?", filter)
	}
	var hours []models.DoctorHours
	if err := query.Find(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get doctor hours",
		})
	}
	return c.JSON(hours)
}

// CreateDoctorHours creates a working window for a doctor
func CreateDoctorHours(c *fiber.Ctx) error {
	hours := new(models.DoctorHours)
	if err := c.BodyParser(hours); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	scope := ScopeFromCtx(c)
	if hours.DoctorID == 0 && scope.IsDoctor() {
		hours.DoctorID = scope.UserID
	}
	if hours.DoctorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "doctor_id is required",
		})
	}
	if !scope.CanActFor(hours.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own working hours",
		})
	}
	if hours.Weekday < models.Sunday || hours.Weekday > models.Saturday {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Weekday must be between 0 (Sunday) and 6 (Saturday)",
		})
	}
	if !validClockPair(hours.StartTime, hours.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time and end_time must be HH:MM with start before end",
		})
	}
	hours.Active = true
	if err := db.DB.Create(hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create doctor hours",
		})
	}
	Audit.Record(scope.UserID, "doctor_hours_create", nil, map[string]interface{}{
		"doctor_hours_id": hours.ID,
		"doctor_id":       hours.DoctorID,
		"weekday":         hours.Weekday,
	})
	return c.Status(fiber.StatusCreated).JSON(hours)
}

// UpdateDoctorHours updates a doctor's working window
func UpdateDoctorHours(c *fiber.Ctx) error {
	id := c.Params("id")
	var hours models.DoctorHours
	if err := db.DB.First(&hours, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor hours not found",
		})
	}
	scope := ScopeFromCtx(c)
	if !scope.CanActFor(hours.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own working hours",
		})
	}
	if err := c.BodyParser(&hours); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to parse request body",
		})
	}
	if !validClockPair(hours.StartTime, hours.EndTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "start_time and end_time must be HH:MM with start before end",
		})
	}
	if err := db.DB.Save(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update doctor hours",
		})
	}
	Audit.Record(scope.UserID, "doctor_hours_update", nil, map[string]interface{}{
		"doctor_hours_id": hours.ID,
		"doctor_id":       hours.DoctorID,
	})
	return c.JSON(hours)
}

// DeleteDoctorHours deletes a doctor's working window by ID
func DeleteDoctorHours(c *fiber.Ctx) error {
	id := c.Params("id")
	var hours models.DoctorHours
	if err := db.DB.First(&hours, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor hours not found",
		})
	}
	scope := ScopeFromCtx(c)
	if !scope.CanActFor(hours.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Doctors may only manage their own working hours",
		})
	}
	if err := db.DB.Delete(&hours).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete doctor hours",
		})
	}
	Audit.Record(scope.UserID, "doctor_hours_delete", nil, map[string]interface{}{
		"doctor_hours_id": hours.ID,
		"doctor_id":       hours.DoctorID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
