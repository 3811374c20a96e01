package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/models"
	"github.com/praxismed/praxis-scheduler/scheduling"
	"github.com/praxismed/praxis-scheduler/utils"
)

// OperationInput is the request body for planning an operation.
type OperationInput struct {
	Title            string    `json:"title"`
	Notes            string    `json:"notes"`
	PatientID        uint      `json:"patient_id"`
	PrimarySurgeonID uint      `json:"primary_surgeon_id"`
	AssistantID      *uint     `json:"assistant_id"`
	AnesthesistID    *uint     `json:"anesthesist_id"`
	OpRoomID         uint      `json:"op_room_id"`
	DeviceIDs        []uint    `json:"device_ids"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
}

// GetAllOperations lists operations; surgeons only see the ones they
// take part in.
func GetAllOperations(c *fiber.Ctx) error {
	scope := ScopeFromCtx(c)
	query := db.DB.Preload("Patient").Preload("PrimarySurgeon").Preload("Assistant").
		Preload("Anesthesist").Preload("OpRoom").Preload("Devices.Resource")
	if doctorID, limited := scope.DoctorFilter(); limited {
		query = query.Where(
			"primary_surgeon_id = ? OR assistant_id = ? OR anesthesist_id = ?",
			doctorID, doctorID, doctorID,
		)
	}
	if from := c.Query("from"); from != "" {
		query = query.Where("end_time > ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("start_time < ?", to)
	}
	var operations []models.Operation
	if err := query.Order("start_time").Find(&operations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch operations",
			Error:   err.Error(),
		})
	}
	return c.JSON(operations)
}

// GetOperation returns one operation with all participants loaded.
func GetOperation(c *fiber.Ctx) error {
	id := c.Params("id")
	var operation models.Operation
	err := db.DB.Preload("Patient").Preload("PrimarySurgeon").Preload("Assistant").
		Preload("Anesthesist").Preload("OpRoom").Preload("Devices.Resource").
		First(&operation, id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Operation not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(operation)
}

// CreateOperation godoc
// @Summary Plan a new operation
// @Description Check every participating doctor for absences and breaks, the room, devices and patient for overlaps, then book
// @Tags operations
// @Accept json
// @Produce json
// @Param operation body OperationInput true "Operation"
// @Success 201 {object} models.Operation
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /operations [post]
func CreateOperation(c *fiber.Ctx) error {
	input := new(OperationInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	operation, err := Scheduler.PlanOperation(c.Context(), &scheduling.PlanOperationInput{
		Title:            input.Title,
		Notes:            input.Notes,
		PatientID:        input.PatientID,
		PrimarySurgeonID: input.PrimarySurgeonID,
		AssistantID:      input.AssistantID,
		AnesthesistID:    input.AnesthesistID,
		OpRoomID:         input.OpRoomID,
		DeviceIDs:        input.DeviceIDs,
		Start:            utils.ToPracticeTime(input.StartTime),
		End:              utils.ToPracticeTime(input.EndTime),
		Scope:            ScopeFromCtx(c),
	})
	if err != nil {
		return respondSchedulingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operation)
}

// RescheduleOperation moves an operation to a new time slot. The
// operation being moved is excluded from all overlap checks.
func RescheduleOperation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid operation ID",
			Error:   err.Error(),
		})
	}
	var existing models.Operation
	if err := db.DB.Preload("Devices").First(&existing, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Operation not found",
			Error:   err.Error(),
		})
	}
	if existing.Status != models.OpPlanned {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Only planned operations can be rescheduled",
		})
	}

	var body struct {
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	deviceIDs := make([]uint, 0, len(existing.Devices))
	for _, d := range existing.Devices {
		deviceIDs = append(deviceIDs, d.ResourceID)
	}
	scope := ScopeFromCtx(c)
	planned, err := Scheduler.PlanOperation(c.Context(), &scheduling.PlanOperationInput{
		Title:            existing.Title,
		Notes:            existing.Notes,
		PatientID:        existing.PatientID,
		PrimarySurgeonID: existing.PrimarySurgeonID,
		AssistantID:      existing.AssistantID,
		AnesthesistID:    existing.AnesthesistID,
		OpRoomID:         existing.OpRoomID,
		DeviceIDs:        deviceIDs,
		Start:            utils.ToPracticeTime(body.StartTime),
		End:              utils.ToPracticeTime(body.EndTime),
		ExcludeID:        uint(id),
		Scope:            scope,
	})
	if err != nil {
		return respondSchedulingError(c, err)
	}

	if err := db.DB.Model(&existing).Update("status", models.OpCanceled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to retire old operation",
			Error:   err.Error(),
		})
	}
	Audit.Record(scope.UserID, "operation_reschedule", &existing.PatientID, map[string]interface{}{
		"old_operation_id": existing.ID,
		"new_operation_id": planned.ID,
	})
	return c.JSON(planned)
}

// UpdateOperationStatus moves an operation through planned, running,
// done or canceled.
func UpdateOperationStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var operation models.Operation
	if err := db.DB.First(&operation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Operation not found",
			Error:   err.Error(),
		})
	}
	var body struct {
		Status models.OperationStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	switch body.Status {
	case models.OpPlanned, models.OpRunning, models.OpDone, models.OpCanceled:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Unknown operation status",
		})
	}
	operation.Status = body.Status
	if err := db.DB.Save(&operation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update operation",
			Error:   err.Error(),
		})
	}
	scope := ScopeFromCtx(c)
	Audit.Record(scope.UserID, "operation_status", &operation.PatientID, map[string]interface{}{
		"operation_id": operation.ID,
		"status":       operation.Status,
	})
	return c.JSON(operation)
}

// DeleteOperation removes a planned operation.
func DeleteOperation(c *fiber.Ctx) error {
	id := c.Params("id")
	var operation models.Operation
	if err := db.DB.First(&operation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Operation not found",
			Error:   err.Error(),
		})
	}
	scope := ScopeFromCtx(c)
	if !scope.CanActFor(operation.PrimarySurgeonID) {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Doctors may only delete their own operations",
		})
	}
	if err := db.DB.Delete(&operation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete operation",
			Error:   err.Error(),
		})
	}
	Audit.Record(scope.UserID, "operation_delete", &operation.PatientID, map[string]interface{}{
		"operation_id": operation.ID,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
