package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/praxismed/praxis-scheduler/db"
	"github.com/praxismed/praxis-scheduler/redis"
	"github.com/praxismed/praxis-scheduler/scheduling"
	"github.com/praxismed/praxis-scheduler/utils"
)

// Scheduler is the shared scheduling facade. Wired once at startup.
var Scheduler *scheduling.Facade

// Audit is the shared sink for administrative CRUD actions.
var Audit scheduling.AuditSink = scheduling.NopAudit{}

// InitScheduler wires the facade onto the global DB and Redis clients.
// Must run after db.Init and redis.InitRedis.
func InitScheduler() {
	sink := utils.NewAuditSink(db.DB)
	Audit = sink
	Scheduler = scheduling.NewFacade(db.NewStore(), redis.NewLocker(), sink)
}

// ScopeFromCtx returns the AccessScope computed by the permission
// middleware, falling back to the JWT locals when a route skips it.
func ScopeFromCtx(c *fiber.Ctx) scheduling.AccessScope {
	if scope, ok := c.Locals("scope").(scheduling.AccessScope); ok {
		return scope
	}
	scope := scheduling.AccessScope{}
	if id, ok := c.Locals("userID").(uint); ok {
		scope.UserID = id
	}
	if role, ok := c.Locals("role").(string); ok {
		scope.Role = role
	}
	return scope
}

// respondSchedulingError maps engine errors onto the structured
// payloads of the API: 400 for malformed input, 409 for
// unavailability and conflicts.
func respondSchedulingError(c *fiber.Ctx, err error) error {
	var invalid *scheduling.InvalidDataError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"kind":   scheduling.KindInvalidData,
			"detail": invalid.Detail,
		})
	}
	var unavailable *scheduling.UnavailableError
	if errors.As(err, &unavailable) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"kind":         unavailable.Kind,
			"detail":       unavailable.Detail,
			"alternatives": unavailable.Alternatives,
		})
	}
	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"kind":     scheduling.KindConflict,
			"detail":   conflict.Detail,
			"conflict": conflict.Conflict,
		})
	}
	if errors.Is(err, redis.ErrLocked) {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Another booking for these resources is in progress, please retry",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
		Message: "Scheduling failed",
		Error:   err.Error(),
	})
}
