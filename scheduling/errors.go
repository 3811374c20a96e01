package scheduling

import (
	"fmt"
	"time"
)

// ErrorKind tags every scheduling failure so the API layer can shape
// the response without string matching.
type ErrorKind string

const (
	KindInvalidData  ErrorKind = "InvalidSchedulingData"
	KindDoctorAbsent ErrorKind = "DoctorAbsent"
	KindWorkingHours ErrorKind = "WorkingHoursViolation"
	KindDoctorBreak  ErrorKind = "DoctorBreakConflict"
	KindConflict     ErrorKind = "SchedulingConflict"
)

// Alternative labels another doctor's earliest equal-duration slot,
// offered when the requested doctor is unavailable.
type Alternative struct {
	DoctorID      uint      `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name"`
	NextAvailable time.Time `json:"next_available"`
}

// InvalidDataError reports malformed input. Never retried.
type InvalidDataError struct {
	Detail string `json:"detail"`
}

func (e *InvalidDataError) Error() string {
	return e.Detail
}

func invalidData(format string, args ...interface{}) *InvalidDataError {
	return &InvalidDataError{Detail: fmt.Sprintf(format, args...)}
}

// UnavailableError covers the three "doctor unavailable" causes. The
// kind distinguishes them for logging/audit; callers treat all three
// the same and look at Alternatives.
type UnavailableError struct {
	Kind         ErrorKind     `json:"kind"`
	DoctorID     uint          `json:"doctor_id"`
	Detail       string        `json:"detail"`
	Alternatives []Alternative `json:"alternatives"`
}

func (e *UnavailableError) Error() string {
	return e.Detail
}

// Conflict identifies the booking that blocks the request.
type Conflict struct {
	ResourceID           uint   `json:"resource_id"`
	ConflictingBookingID uint   `json:"conflicting_booking_id"`
	Reason               string `json:"reason"`
}

// Conflict reasons, in check order.
const (
	ReasonPatientOverlap      = "patient_overlap"
	ReasonDoctorOverlap       = "doctor_overlap"
	ReasonAppointmentResource = "appointment_resource"
	ReasonOperationRoom       = "operation_room"
	ReasonOperationDevice     = "operation_device"
)

// ConflictError reports a patient or resource double-booking.
type ConflictError struct {
	Detail   string   `json:"detail"`
	Conflict Conflict `json:"conflict"`
}

func (e *ConflictError) Error() string {
	return e.Detail
}
