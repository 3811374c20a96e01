package scheduling

import (
	"fmt"
	"time"

	"github.com/praxismed/praxis-scheduler/models"
)

// BookingKind separates the two bookable entity types.
type BookingKind string

const (
	BookingAppointment BookingKind = "appointment"
	BookingOperation   BookingKind = "operation"
)

// BookingRequest is the per-request view the conflict detector works
// on. It is built by the facade, validated, and discarded; it is never
// persisted as-is.
type BookingRequest struct {
	Kind      BookingKind
	PatientID uint
	DoctorID  uint // appointment doctor; 0 for operations
	// ParticipantIDs is the operation team (surgeon, assistant,
	// anesthesist); empty for appointments.
	ParticipantIDs []uint
	ResourceIDs    []uint
	Start          time.Time
	End            time.Time
	// ExcludeID skips the booking being updated in all same-kind
	// overlap probes.
	ExcludeID uint
}

// ConflictDetector checks a request against existing bookings for
// patient, doctor, room and device exclusivity. The first conflict
// found wins; the checks are not exhaustive.
type ConflictDetector struct {
	Store Store
}

// FindConflict returns a *ConflictError describing the first blocking
// booking, or nil when the request is clear. Check order: patient,
// doctor, then resources.
func (d *ConflictDetector) FindConflict(req *BookingRequest) error {
	if err := d.patientConflict(req); err != nil {
		return err
	}
	if req.Kind == BookingAppointment && req.DoctorID != 0 {
		if err := d.doctorConflict(req); err != nil {
			return err
		}
	}
	if req.Kind == BookingOperation {
		if err := d.participantConflict(req); err != nil {
			return err
		}
	}
	return d.resourceConflict(req)
}

func (d *ConflictDetector) patientConflict(req *BookingRequest) error {
	excludeAppt, excludeOp := req.excludes()
	appt, err := d.Store.PatientAppointmentOverlap(req.PatientID, req.Start, req.End, excludeAppt)
	if err != nil {
		return err
	}
	if appt != nil {
		return &ConflictError{
			Detail: "Appointment conflict: patient already has a booking in this range.",
			Conflict: Conflict{
				ConflictingBookingID: appt.ID,
				Reason:               ReasonPatientOverlap,
			},
		}
	}
	op, err := d.Store.PatientOperationOverlap(req.PatientID, req.Start, req.End, excludeOp)
	if err != nil {
		return err
	}
	if op != nil {
		return &ConflictError{
			Detail: "Appointment conflict: patient already has a booking in this range.",
			Conflict: Conflict{
				ConflictingBookingID: op.ID,
				Reason:               ReasonPatientOverlap,
			},
		}
	}
	return nil
}

func (d *ConflictDetector) doctorConflict(req *BookingRequest) error {
	appt, err := d.Store.DoctorAppointmentOverlap(req.DoctorID, req.Start, req.End, req.ExcludeID)
	if err != nil {
		return err
	}
	if appt != nil {
		return &ConflictError{
			Detail: "Doctor already has an appointment in this range.",
			Conflict: Conflict{
				ConflictingBookingID: appt.ID,
				Reason:               ReasonDoctorOverlap,
			},
		}
	}
	return nil
}

// participantConflict blocks a team member who is already part of
// another operation in the range, in any position.
func (d *ConflictDetector) participantConflict(req *BookingRequest) error {
	for _, id := range req.ParticipantIDs {
		op, err := d.Store.DoctorOperationOverlap(id, req.Start, req.End, req.ExcludeID)
		if err != nil {
			return err
		}
		if op != nil {
			return &ConflictError{
				Detail: fmt.Sprintf("Doctor %d is already part of an operation in this range.", id),
				Conflict: Conflict{
					ConflictingBookingID: op.ID,
					Reason:               ReasonDoctorOverlap,
				},
			}
		}
	}
	return nil
}

// resourceConflict blocks a room or device that is taken by another
// appointment's resource allocation, an operation using the room, or an
// operation's device allocation.
func (d *ConflictDetector) resourceConflict(req *BookingRequest) error {
	if len(req.ResourceIDs) == 0 {
		return nil
	}
	resources, err := d.Store.ResourcesByIDs(req.ResourceIDs)
	if err != nil {
		return err
	}
	var roomIDs, deviceIDs []uint
	for _, r := range resources {
		switch r.Type {
		case models.ResourceRoom:
			roomIDs = append(roomIDs, r.ID)
		case models.ResourceDevice:
			deviceIDs = append(deviceIDs, r.ID)
		}
	}

	excludeAppt, excludeOp := req.excludes()
	ar, err := d.Store.AppointmentResourceOverlap(req.ResourceIDs, req.Start, req.End, excludeAppt)
	if err != nil {
		return err
	}
	if ar != nil {
		return &ConflictError{
			Detail: "Resource conflict",
			Conflict: Conflict{
				ResourceID:           ar.ResourceID,
				ConflictingBookingID: ar.AppointmentID,
				Reason:               ReasonAppointmentResource,
			},
		}
	}

	if len(roomIDs) > 0 {
		op, err := d.Store.OperationRoomOverlap(roomIDs, req.Start, req.End, excludeOp)
		if err != nil {
			return err
		}
		if op != nil {
			return &ConflictError{
				Detail: "Resource conflict",
				Conflict: Conflict{
					ResourceID:           op.OpRoomID,
					ConflictingBookingID: op.ID,
					Reason:               ReasonOperationRoom,
				},
			}
		}
	}

	if len(deviceIDs) > 0 {
		od, err := d.Store.OperationDeviceOverlap(deviceIDs, req.Start, req.End, excludeOp)
		if err != nil {
			return err
		}
		if od != nil {
			return &ConflictError{
				Detail: "Resource conflict",
				Conflict: Conflict{
					ResourceID:           od.ResourceID,
					ConflictingBookingID: od.OperationID,
					Reason:               ReasonOperationDevice,
				},
			}
		}
	}
	return nil
}

// excludes maps ExcludeID onto the right booking table per kind.
func (req *BookingRequest) excludes() (appointmentID, operationID uint) {
	switch req.Kind {
	case BookingAppointment:
		return req.ExcludeID, 0
	case BookingOperation:
		return 0, req.ExcludeID
	}
	return 0, 0
}
