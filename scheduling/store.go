package scheduling

import (
	"time"

	"github.com/praxismed/praxis-scheduler/models"
)

// Store is the read/commit boundary of the engine. Every validation
// call re-reads current state; the engine caches nothing across
// requests. db.GormStore is the production implementation.
type Store interface {
	// Working hours, absences, breaks (active rows only).
	PracticeHoursFor(weekday time.Weekday) ([]models.PracticeHours, error)
	DoctorHoursFor(doctorID uint, weekday time.Weekday) ([]models.DoctorHours, error)
	AbsencesOverlapping(doctorID uint, startDate, endDate time.Time) ([]models.DoctorAbsence, error)
	// BreaksOn returns breaks on the given date that are either
	// practice-wide or scoped to the doctor.
	BreaksOn(date time.Time, doctorID uint) ([]models.DoctorBreak, error)

	// Entity resolution.
	DoctorByID(id uint) (*models.User, error)
	ActiveDoctors(excludeID uint) ([]models.User, error)
	ResourcesByIDs(ids []uint) ([]models.Resource, error)

	// Overlap probes. Each returns the first conflicting row or nil.
	// Canceled bookings never count. excludeID skips the booking being
	// updated (0 = none).
	PatientAppointmentOverlap(patientID uint, start, end time.Time, excludeID uint) (*models.Appointment, error)
	PatientOperationOverlap(patientID uint, start, end time.Time, excludeID uint) (*models.Operation, error)
	DoctorAppointmentOverlap(doctorID uint, start, end time.Time, excludeID uint) (*models.Appointment, error)
	// DoctorOperationOverlap matches the doctor in any team position
	// (primary surgeon, assistant, anesthesist).
	DoctorOperationOverlap(doctorID uint, start, end time.Time, excludeOperationID uint) (*models.Operation, error)
	AppointmentResourceOverlap(resourceIDs []uint, start, end time.Time, excludeAppointmentID uint) (*models.AppointmentResource, error)
	OperationRoomOverlap(roomIDs []uint, start, end time.Time, excludeOperationID uint) (*models.Operation, error)
	OperationDeviceOverlap(deviceIDs []uint, start, end time.Time, excludeOperationID uint) (*models.OperationDevice, error)

	// Commits. The recheck callback runs inside the same transaction
	// against a transaction-scoped Store, so concurrent bookings that
	// slipped past the unlocked validation pass are caught before the
	// row is written.
	CommitAppointment(appt *models.Appointment, resourceIDs []uint, recheck func(Store) error) error
	CommitOperation(op *models.Operation, deviceIDs []uint, recheck func(Store) error) error
}

// AuditSink receives scheduling events. Implementations must swallow
// their own failures; a broken sink never fails a scheduling call.
type AuditSink interface {
	Record(userID uint, action string, patientID *uint, meta map[string]interface{})
}

// NopAudit discards everything. Useful for tests and tooling.
type NopAudit struct{}

func (NopAudit) Record(uint, string, *uint, map[string]interface{}) {}
