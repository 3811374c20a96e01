package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxismed/praxis-scheduler/models"
)

func TestFindConflictClearCalendar(t *testing.T) {
	s := newFakeStore()
	d := &ConflictDetector{Store: s}

	err := d.FindConflict(&BookingRequest{
		Kind:      BookingAppointment,
		PatientID: 10,
		DoctorID:  1,
		Start:     at(monday, 9, 0),
		End:       at(monday, 9, 30),
	})
	assert.NoError(t, err)
}

func TestPatientConflictWinsOverDoctorConflict(t *testing.T) {
	s := newFakeStore()
	// The patient is booked with doctor 2, and doctor 1 is busy with a
	// different patient. The patient conflict must be reported first.
	s.addAppointment(50, 10, 2, at(monday, 9, 0), at(monday, 9, 30), models.StatusConfirmed)
	s.addAppointment(51, 11, 1, at(monday, 9, 0), at(monday, 9, 30), models.StatusConfirmed)

	err := (&ConflictDetector{Store: s}).FindConflict(&BookingRequest{
		Kind:      BookingAppointment,
		PatientID: 10,
		DoctorID:  1,
		Start:     at(monday, 9, 15),
		End:       at(monday, 9, 45),
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ReasonPatientOverlap, conflict.Conflict.Reason)
	assert.Equal(t, uint(50), conflict.Conflict.ConflictingBookingID)
	assert.Equal(t, "Appointment conflict: patient already has a booking in this range.", conflict.Detail)
}

func TestPatientConflictAgainstOperation(t *testing.T) {
	s := newFakeStore()
	s.addResource(30, "OP 1", models.ResourceRoom)
	s.addOperation(60, 10, 2, 30, at(monday, 8, 0), at(monday, 11, 0), models.OpPlanned)

	err := (&ConflictDetector{Store: s}).FindConflict(&BookingRequest{
		Kind:      BookingAppointment,
		PatientID: 10,
		DoctorID:  1,
		Start:     at(monday, 10, 0),
		End:       at(monday, 10, 30),
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ReasonPatientOverlap, conflict.Conflict.Reason)
	assert.Equal(t, uint(60), conflict.Conflict.ConflictingBookingID)
}

func TestDoctorConflict(t *testing.T) {
	s := newFakeStore()
	s.addAppointment(50, 11, 1, at(monday, 9, 0), at(monday, 9, 30), models.StatusPending)

	err := (&ConflictDetector{Store: s}).FindConflict(&BookingRequest{
		Kind:      BookingAppointment,
		PatientID: 10,
		DoctorID:  1,
		Start:     at(monday, 9, 15),
		End:       at(monday, 9, 45),
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ReasonDoctorOverlap, conflict.Conflict.Reason)
}

func TestOperationParticipantConflict(t *testing.T) {
	s := newFakeStore()
	s.addResource(30, "OP 1", models.ResourceRoom)
	s.addResource(32, "OP 2", models.ResourceRoom)
	assistant := uint(3)
	s.addOperation(60, 11, 1, 30, at(monday, 9, 0), at(monday, 11, 0), models.OpPlanned)
	s.operations[0].AssistantID = &assistant

	d := &ConflictDetector{Store: s}

	// Surgeon 1 is operating in room 30; a second operation in another
	// room with the same surgeon must be blocked.
	err := d.FindConflict(&BookingRequest{
		Kind:           BookingOperation,
		PatientID:      10,
		ParticipantIDs: []uint{1},
		ResourceIDs:    []uint{32},
		Start:          at(monday, 10, 0),
		End:            at(monday, 12, 0),
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ReasonDoctorOverlap, conflict.Conflict.Reason)
	assert.Equal(t, uint(60), conflict.Conflict.ConflictingBookingID)

	// The assistant is bound just like the surgeon.
	err = d.FindConflict(&BookingRequest{
		Kind:           BookingOperation,
		PatientID:      10,
		ParticipantIDs: []uint{3},
		ResourceIDs:    []uint{32},
		Start:          at(monday, 10, 0),
		End:            at(monday, 12, 0),
	})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint(60), conflict.Conflict.ConflictingBookingID)

	// A doctor outside the team is free.
	err = d.FindConflict(&BookingRequest{
		Kind:           BookingOperation,
		PatientID:      10,
		ParticipantIDs: []uint{4},
		ResourceIDs:    []uint{32},
		Start:          at(monday, 10, 0),
		End:            at(monday, 12, 0),
	})
	assert.NoError(t, err)
}

func TestCanceledBookingsDoNotConflict(t *testing.T) {
	s := newFakeStore()
	s.addAppointment(50, 10, 1, at(monday, 9, 0), at(monday, 9, 30), models.StatusCanceled)

	err := (&ConflictDetector{Store: s}).FindConflict(&BookingRequest{
		Kind:      BookingAppointment,
		PatientID: 10,
		DoctorID:  1,
		Start:     at(monday, 9, 0),
		End:       at(monday, 9, 30),
	})
	assert.NoError(t, err)
}

func TestTouchingBookingsDoNotConflict(t *testing.T) {
	s := newFakeStore()
	s.addAppointment(50, 10, 1, at(monday, 9, 0), at(monday, 9, 30), models.StatusConfirmed)

	err := (&ConflictDetector{Store: s}).FindConflict(&BookingRequest{
		Kind:      BookingAppointment,
		PatientID: 10,
		DoctorID:  1,
		Start:     at(monday, 9, 30),
		End:       at(monday, 10, 0),
	})
	assert.NoError(t, err)
}

func TestResourceConflictAppointment(t *testing.T) {
	s := newFakeStore()
	s.addResource(30, "Room 1", models.ResourceRoom)
	s.addAppointment(50, 11, 2, at(monday, 9, 0), at(monday, 10, 0), models.StatusConfirmed, 30)

	err := (&ConflictDetector{Store: s}).FindConflict(&BookingRequest{
		Kind:        BookingAppointment,
		PatientID:   10,
		DoctorID:    1,
		ResourceIDs: []uint{30},
		Start:       at(monday, 9, 30),
		End:         at(monday, 10, 30),
	})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ReasonAppointmentResource, conflict.Conflict.Reason)
	assert.Equal(t, uint(30), conflict.Conflict.ResourceID)
	assert.Equal(t, uint(50), conflict.Conflict.ConflictingBookingID)
}

func TestResourceConflictOperationRoomAndDevice(t *testing.T) {
	s := newFakeStore()
	s.addResource(30, "OP 1", models.ResourceRoom)
	s.addResource(31, "C-Arm", models.ResourceDevice)
	s.addOperation(60, 11, 2, 30, at(monday, 8, 0), at(monday, 11, 0), models.OpPlanned, 31)

	d := &ConflictDetector{Store: s}

	roomErr := d.FindConflict(&BookingRequest{
		Kind:        BookingOperation,
		PatientID:   10,
		ResourceIDs: []uint{30},
		Start:       at(monday, 10, 0),
		End:         at(monday, 12, 0),
	})
	var conflict *ConflictError
	require.ErrorAs(t, roomErr, &conflict)
	assert.Equal(t, ReasonOperationRoom, conflict.Conflict.Reason)
	assert.Equal(t, uint(30), conflict.Conflict.ResourceID)

	deviceErr := d.FindConflict(&BookingRequest{
		Kind:        BookingOperation,
		PatientID:   10,
		ResourceIDs: []uint{31},
		Start:       at(monday, 10, 0),
		End:         at(monday, 12, 0),
	})
	require.ErrorAs(t, deviceErr, &conflict)
	assert.Equal(t, ReasonOperationDevice, conflict.Conflict.Reason)
	assert.Equal(t, uint(31), conflict.Conflict.ResourceID)
	assert.Equal(t, uint(60), conflict.Conflict.ConflictingBookingID)
}

func TestExcludeIDSkipsOwnBooking(t *testing.T) {
	s := newFakeStore()
	s.addResource(30, "Room 1", models.ResourceRoom)
	s.addAppointment(50, 10, 1, at(monday, 9, 0), at(monday, 9, 30), models.StatusConfirmed, 30)

	// Rescheduling appointment 50 inside its own old span is clean.
	err := (&ConflictDetector{Store: s}).FindConflict(&BookingRequest{
		Kind:        BookingAppointment,
		PatientID:   10,
		DoctorID:    1,
		ResourceIDs: []uint{30},
		Start:       at(monday, 9, 15),
		End:         at(monday, 9, 45),
		ExcludeID:   50,
	})
	assert.NoError(t, err)
}
