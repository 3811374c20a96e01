package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/scheduling"
	"github.com/praxismed/praxis-scheduler/utils"
)

// GetSuggestions godoc
// @Summary Suggest free appointment slots
// @Description Scan a doctor's calendar for the next free slots of the requested length
// @Tags availability
// @Accept json
// @Produce json
// @Param doctor_id query int true "Doctor ID"
// @Param duration query int true "Slot length in minutes"
// @Param start_date query string false "First day to scan, YYYY-MM-DD (default today)"
// @Param limit query int false "Number of slots (default 5)"
// @Success 200 {array} scheduling.TimeWindow
// @Failure 400 {object} utils.ErrorResponse
// @Router /availability/suggestions [get]
func GetSuggestions(c *fiber.Ctx) error {
	doctorID, err := strconv.ParseUint(c.Query("doctor_id"), 10, 32)
	if err != nil || doctorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "doctor_id is required",
		})
	}
	minutes, err := strconv.Atoi(c.Query("duration"))
	if err != nil || minutes <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "duration must be a positive number of minutes",
		})
	}

	loc := utils.PracticeLocation()
	startDate := time.Now().In(loc)
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "start_date must be YYYY-MM-DD",
				Error:   err.Error(),
			})
		}
		startDate = parsed
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "limit must be a positive number",
			})
		}
		limit = parsed
	}

	slots, err := Scheduler.Suggest(uint(doctorID), time.Duration(minutes)*time.Minute, startDate, limit)
	if err != nil {
		return respondSchedulingError(c, err)
	}
	if slots == nil {
		slots = []scheduling.TimeWindow{}
	}
	return c.JSON(fiber.Map{
		"doctor_id": doctorID,
		"duration":  minutes,
		"slots":     slots,
	})
}
