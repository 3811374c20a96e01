package controllers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
	"github.com/praxismed/praxis-scheduler/scheduling"
	"github.com/praxismed/praxis-scheduler/utils"
)

// AppointmentInput is the request body for creating or rescheduling an
// appointment. Times are RFC 3339; duration_minutes may replace
// end_time.
type AppointmentInput struct {
	Title           string    `json:"title"`
	Notes           string    `json:"notes"`
	PatientID       uint      `json:"patient_id"`
	DoctorID        uint      `json:"doctor_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	ResourceIDs     []uint    `json:"resource_ids"`
}

func (in *AppointmentInput) span() (time.Time, time.Time) {
	start := utils.ToPracticeTime(in.StartTime)
	end := utils.ToPracticeTime(in.EndTime)
	if in.EndTime.IsZero() && in.DurationMinutes > 0 {
		end = start.Add(time.Duration(in.DurationMinutes) * time.Minute)
	}
	return start, end
}

// GetAllAppointments godoc
// @Summary List appointments
// @Description List appointments; doctors only see their own
// @Tags appointments
// @Accept json
// @Produce json
// @Success 200 {array} models.Appointment
// @Failure 500 {object} utils.ErrorResponse
// @Router /appointments [get]
func GetAllAppointments(c *fiber.Ctx) error {
	scope := ScopeFromCtx(c)
	query := db.DB.Preload("Patient").Preload("Doctor").Preload("Resources.Resource")
	if doctorID, limited := scope.DoctorFilter(); limited {
		query = query.Where("doctor_id = ?", doctorID)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("end_time > ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("start_time < ?", to)
	}
	var appointments []models.Appointment
	if err := query.Order("start_time").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetAppointment godoc
// @Summary Get an appointment by ID
// @Description Get an appointment by ID
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id} [get]
func GetAppointment(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Patient").Preload("Doctor").Preload("Resources.Resource").First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointment)
}

// CreateAppointment godoc
// @Summary Book a new appointment
// @Description Validate against working hours, absences, breaks and existing bookings, then book
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointment body AppointmentInput true "Appointment"
// @Success 201 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments [post]
func CreateAppointment(c *fiber.Ctx) error {
	input := new(AppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	start, end := input.span()
	appointment, err := Scheduler.PlanAppointment(c.Context(), &scheduling.PlanAppointmentInput{
		Title:       input.Title,
		Notes:       input.Notes,
		PatientID:   input.PatientID,
		DoctorID:    input.DoctorID,
		Start:       start,
		End:         end,
		ResourceIDs: input.ResourceIDs,
		Scope:       ScopeFromCtx(c),
	})
	if err != nil {
		return respondSchedulingError(c, err)
	}

	go sendAppointmentConfirmation(appointment.ID)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// RescheduleAppointment godoc
// @Summary Reschedule an appointment
// @Description Move an appointment to a new time; the appointment itself is ignored during conflict checks
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param appointment body AppointmentInput true "New schedule"
// @Success 200 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments/{id}/reschedule [patch]
func RescheduleAppointment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
			Error:   err.Error(),
		})
	}
	var existing models.Appointment
	if err := db.DB.First(&existing, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	if existing.Status == models.StatusCanceled || existing.Status == models.StatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Only pending or confirmed appointments can be rescheduled",
		})
	}

	input := new(AppointmentInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.DoctorID == 0 {
		input.DoctorID = existing.DoctorID
	}
	if input.Title == "" {
		input.Title = existing.Title
	}
	// Carry the old room/device allocations unless the body replaces them.
	if input.ResourceIDs == nil {
		var allocations []models.AppointmentResource
		if err := db.DB.Where("appointment_id = ?", existing.ID).Find(&allocations).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load appointment resources",
				Error:   err.Error(),
			})
		}
		for _, a := range allocations {
			input.ResourceIDs = append(input.ResourceIDs, a.ResourceID)
		}
	}
	start, end := input.span()

	scope := ScopeFromCtx(c)
	if !scope.CanActFor(existing.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Doctors may only reschedule their own appointments",
		})
	}

	planned, err := Scheduler.PlanAppointment(c.Context(), &scheduling.PlanAppointmentInput{
		Title:       input.Title,
		Notes:       input.Notes,
		PatientID:   existing.PatientID,
		DoctorID:    input.DoctorID,
		Start:       start,
		End:         end,
		ResourceIDs: input.ResourceIDs,
		ExcludeID:   uint(id),
		Scope:       scope,
	})
	if err != nil {
		return respondSchedulingError(c, err)
	}

	// The facade booked a fresh validated row; retire the old one.
	if err := db.DB.Model(&existing).Update("status", models.StatusCanceled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to retire old appointment",
			Error:   err.Error(),
		})
	}
	Audit.Record(scope.UserID, "appointment_reschedule", &existing.PatientID, map[string]interface{}{
		"old_appointment_id": existing.ID,
		"new_appointment_id": planned.ID,
	})
	return c.JSON(planned)
}

// UpdateAppointmentStatus godoc
// @Summary Update appointment status
// @Description Confirm, cancel or complete an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id}/status [patch]
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	var body struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := appointment.UpdateStatus(db.DB, body.Status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status transition",
			Error:   err.Error(),
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "appointment_status", &appointment.PatientID, map[string]interface{}{
		"appointment_id": appointment.ID,
		"status":         appointment.Status,
	})
	return c.JSON(appointment)
}

// DeleteAppointment godoc
// @Summary Cancel and delete an appointment
// @Tags appointments
// @Param id path int true "Appointment ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id} [delete]
func DeleteAppointment(c *fiber.Ctx) error {
	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	scope := ScopeFromCtx(c)
	if !scope.CanActFor(appointment.DoctorID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Doctors may only delete their own appointments",
		})
	}
	if err := db.DB.Delete(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete appointment",
			Error:   err.Error(),
		})
	}
	Audit.Record(scope.UserID, "appointment_delete", &appointment.PatientID, map[string]interface{}{
		"appointment_id": appointment.ID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// sendAppointmentConfirmation mails the patient after a successful
// booking. Runs in the background; failures are logged only.
func sendAppointmentConfirmation(appointmentID uint) {
	var appointment models.Appointment
	if err := db.DB.Preload("Patient").Preload("Doctor").First(&appointment, appointmentID).Error; err != nil {
		log.Printf("Error loading appointment %d for confirmation mail: %v", appointmentID, err)
		return
	}
	if appointment.Patient.Email == "" {
		return
	}
	loc := utils.PracticeLocation()
	body := fmt.Sprintf(
		"<p>Dear %s,</p><p>your appointment with %s is booked for %s.</p><p>Your practice team</p>",
		appointment.Patient.DisplayName(),
		appointment.Doctor.DisplayName(),
		appointment.StartTime.In(loc).Format("02.01.2006 15:04"),
	)
	if err := utils.SendEmail(appointment.Patient.Email, "Appointment confirmation", body); err != nil {
		log.Printf("Error sending confirmation for appointment %d: %v", appointmentID, err)
	}
}
