package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/praxismed/praxis-scheduler/models"
)

// Locker guards validate+commit against concurrent booking attempts
// touching the same doctor/patient/room/device. redis.ResourceLocker
// is the production implementation.
type Locker interface {
	// LockResources acquires all keys or none. The returned func
	// releases them.
	LockResources(ctx context.Context, keys []string, ttl time.Duration) (func(), error)
}

// NopLocker skips locking. Used by tests and read-only tooling.
type NopLocker struct{}

func (NopLocker) LockResources(context.Context, []string, time.Duration) (func(), error) {
	return func() {}, nil
}

const lockTTL = 10 * time.Second

// PlanAppointmentInput carries one appointment request through
// validation and commit.
type PlanAppointmentInput struct {
	Title       string
	Notes       string
	PatientID   uint
	DoctorID    uint
	Start       time.Time
	End         time.Time
	ResourceIDs []uint
	// ExcludeID marks the appointment being rescheduled.
	ExcludeID uint
	Scope     AccessScope
}

// PlanOperationInput carries one operating-room procedure request.
type PlanOperationInput struct {
	Title            string
	Notes            string
	PatientID        uint
	PrimarySurgeonID uint
	AssistantID      *uint
	AnesthesistID    *uint
	OpRoomID         uint
	DeviceIDs        []uint
	Start            time.Time
	End              time.Time
	ExcludeID        uint
	Scope            AccessScope
}

// Facade orchestrates the engine: validate input shape, resolve
// entities, check availability for every participant, detect
// conflicts, then commit while holding the resource locks. One pass
// per request; there are no automatic retries.
type Facade struct {
	Store        Store
	Availability *AvailabilityChecker
	Conflicts    *ConflictDetector
	Suggestions  *SuggestionEngine
	Locks        Locker
	Audit        AuditSink
}

// NewFacade wires the engine components onto one store.
func NewFacade(store Store, locks Locker, audit AuditSink) *Facade {
	conflicts := &ConflictDetector{Store: store}
	suggestions := &SuggestionEngine{Store: store}
	availability := &AvailabilityChecker{Store: store, Suggestions: suggestions}
	if locks == nil {
		locks = NopLocker{}
	}
	if audit == nil {
		audit = NopAudit{}
	}
	return &Facade{
		Store:        store,
		Availability: availability,
		Conflicts:    conflicts,
		Suggestions:  suggestions,
		Locks:        locks,
		Audit:        audit,
	}
}

// Suggest exposes the slot scan to the API layer. Read-only; runs
// without resource locks.
func (f *Facade) Suggest(doctorID uint, duration time.Duration, startDate time.Time, limit int) ([]TimeWindow, error) {
	if doctorID == 0 {
		return nil, invalidData("doctor_id is required")
	}
	if duration <= 0 {
		return nil, invalidData("duration must be positive")
	}
	if limit <= 0 {
		limit = 1
	}
	return f.Suggestions.Suggest(doctorID, duration, startDate, limit, DefaultMaxDays)
}

// PlanAppointment validates and commits one appointment, or returns a
// structured scheduling error without committing.
func (f *Facade) PlanAppointment(ctx context.Context, in *PlanAppointmentInput) (*models.Appointment, error) {
	if err := validateSpan(in.Start, in.End); err != nil {
		return nil, err
	}
	if in.PatientID == 0 {
		return nil, invalidData("patient_id is required")
	}
	if in.DoctorID == 0 {
		return nil, invalidData("doctor_id is required")
	}
	if !sameDate(in.Start, in.End) {
		return nil, invalidData("appointments must start and end on the same day")
	}
	if !in.Scope.CanActFor(in.DoctorID) {
		return nil, invalidData("doctors may only manage their own appointments")
	}

	doctor, err := f.Store.DoctorByID(in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, invalidData("doctor %d not found or not a doctor", in.DoctorID)
	}
	if _, err := f.resolveResources(in.ResourceIDs); err != nil {
		return nil, err
	}

	keys := lockKeys(map[string][]uint{
		"doctor":   {in.DoctorID},
		"patient":  {in.PatientID},
		"resource": in.ResourceIDs,
	})
	release, err := f.Locks.LockResources(ctx, keys, lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := f.Availability.Check(doctor, in.Start, in.End); err != nil {
		f.auditFailure(in.Scope, "appointment_unavailable", in.PatientID, err)
		return nil, err
	}

	req := &BookingRequest{
		Kind:        BookingAppointment,
		PatientID:   in.PatientID,
		DoctorID:    in.DoctorID,
		ResourceIDs: in.ResourceIDs,
		Start:       in.Start,
		End:         in.End,
		ExcludeID:   in.ExcludeID,
	}
	if err := f.Conflicts.FindConflict(req); err != nil {
		f.auditFailure(in.Scope, "appointment_conflict", in.PatientID, err)
		return nil, err
	}

	appt := &models.Appointment{
		Title:     in.Title,
		Notes:     in.Notes,
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		StartTime: in.Start,
		EndTime:   in.End,
		Status:    models.StatusPending,
	}
	err = f.Store.CommitAppointment(appt, in.ResourceIDs, func(tx Store) error {
		detector := &ConflictDetector{Store: tx}
		return detector.FindConflict(req)
	})
	if err != nil {
		if _, ok := err.(*ConflictError); ok {
			f.auditFailure(in.Scope, "appointment_conflict", in.PatientID, err)
		}
		return nil, err
	}

	f.Audit.Record(in.Scope.UserID, "appointment_create", &in.PatientID, map[string]interface{}{
		"appointment_id": appt.ID,
		"doctor_id":      in.DoctorID,
	})
	return appt, nil
}

// PlanOperation validates and commits one operation. Participants are
// checked for absences and breaks on every affected day; operations
// are not bound to working-hours containment and may span dates.
func (f *Facade) PlanOperation(ctx context.Context, in *PlanOperationInput) (*models.Operation, error) {
	if err := validateSpan(in.Start, in.End); err != nil {
		return nil, err
	}
	if in.PatientID == 0 {
		return nil, invalidData("patient_id is required")
	}
	if in.PrimarySurgeonID == 0 {
		return nil, invalidData("primary_surgeon_id is required")
	}
	if in.OpRoomID == 0 {
		return nil, invalidData("op_room_id is required")
	}
	if !in.Scope.CanActFor(in.PrimarySurgeonID) {
		return nil, invalidData("doctors may only manage their own operations")
	}

	participantIDs := []uint{in.PrimarySurgeonID}
	if in.AssistantID != nil {
		participantIDs = append(participantIDs, *in.AssistantID)
	}
	if in.AnesthesistID != nil {
		participantIDs = append(participantIDs, *in.AnesthesistID)
	}
	for _, id := range participantIDs {
		doctor, err := f.Store.DoctorByID(id)
		if err != nil {
			return nil, err
		}
		if doctor == nil || !doctor.IsDoctor() {
			return nil, invalidData("doctor %d not found or not a doctor", id)
		}
	}

	resourceIDs := append([]uint{in.OpRoomID}, in.DeviceIDs...)
	resources, err := f.resolveResources(resourceIDs)
	if err != nil {
		return nil, err
	}
	if resources[in.OpRoomID].Type != models.ResourceRoom {
		return nil, invalidData("resource %d is not a room", in.OpRoomID)
	}
	for _, did := range in.DeviceIDs {
		if resources[did].Type != models.ResourceDevice {
			return nil, invalidData("resource %d is not a device", did)
		}
	}

	keys := lockKeys(map[string][]uint{
		"doctor":   participantIDs,
		"patient":  {in.PatientID},
		"resource": resourceIDs,
	})
	release, err := f.Locks.LockResources(ctx, keys, lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	for _, id := range participantIDs {
		if err := f.Availability.CheckAbsencesAndBreaks(id, in.Start, in.End); err != nil {
			f.auditFailure(in.Scope, "operation_unavailable", in.PatientID, err)
			return nil, err
		}
	}

	req := &BookingRequest{
		Kind:           BookingOperation,
		PatientID:      in.PatientID,
		ParticipantIDs: participantIDs,
		ResourceIDs:    resourceIDs,
		Start:          in.Start,
		End:            in.End,
		ExcludeID:      in.ExcludeID,
	}
	if err := f.Conflicts.FindConflict(req); err != nil {
		f.auditFailure(in.Scope, "operation_conflict", in.PatientID, err)
		return nil, err
	}

	op := &models.Operation{
		Title:            in.Title,
		Notes:            in.Notes,
		PatientID:        in.PatientID,
		PrimarySurgeonID: in.PrimarySurgeonID,
		AssistantID:      in.AssistantID,
		AnesthesistID:    in.AnesthesistID,
		OpRoomID:         in.OpRoomID,
		StartTime:        in.Start,
		EndTime:          in.End,
		Status:           models.OpPlanned,
	}
	err = f.Store.CommitOperation(op, in.DeviceIDs, func(tx Store) error {
		detector := &ConflictDetector{Store: tx}
		return detector.FindConflict(req)
	})
	if err != nil {
		if _, ok := err.(*ConflictError); ok {
			f.auditFailure(in.Scope, "operation_conflict", in.PatientID, err)
		}
		return nil, err
	}

	f.Audit.Record(in.Scope.UserID, "operation_create", &in.PatientID, map[string]interface{}{
		"operation_id":       op.ID,
		"primary_surgeon_id": in.PrimarySurgeonID,
		"op_room_id":         in.OpRoomID,
	})
	return op, nil
}

// resolveResources rejects unknown or inactive resource ids and
// returns the resolved rows keyed by id.
func (f *Facade) resolveResources(ids []uint) (map[uint]models.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resources, err := f.Store.ResourcesByIDs(ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uint]models.Resource, len(resources))
	for _, r := range resources {
		found[r.ID] = r
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, invalidData("resource %d unknown or inactive", id)
		}
	}
	return found, nil
}

func (f *Facade) auditFailure(scope AccessScope, action string, patientID uint, err error) {
	meta := map[string]interface{}{"error": err.Error()}
	if ce, ok := err.(*ConflictError); ok {
		meta["resource_id"] = ce.Conflict.ResourceID
		meta["conflicting_booking_id"] = ce.Conflict.ConflictingBookingID
		meta["reason"] = ce.Conflict.Reason
	}
	f.Audit.Record(scope.UserID, action, &patientID, meta)
}

// lockKeys renders deterministic, sorted lock keys so two concurrent
// requests always acquire in the same order.
func lockKeys(groups map[string][]uint) []string {
	var keys []string
	seen := map[string]bool{}
	for _, kind := range []string{"doctor", "patient", "resource"} {
		for _, id := range groups[kind] {
			if id == 0 {
				continue
			}
			key := fmt.Sprintf("sched:lock:%s:%d", kind, id)
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
