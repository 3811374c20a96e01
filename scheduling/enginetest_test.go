package scheduling

import (
	"sort"
	"time"

	"github.com/praxismed/praxis-scheduler/models"
)

// fakeStore is an in-memory Store for engine tests. Overlap semantics
// mirror the SQL probes: half-open spans, canceled bookings ignored.
type fakeStore struct {
	practiceHours []models.PracticeHours
	doctorHours   []models.DoctorHours
	absences      []models.DoctorAbsence
	breaks        []models.DoctorBreak
	doctors       map[uint]*models.User
	resources     map[uint]models.Resource
	appointments  []models.Appointment
	operations    []models.Operation
	apptResources []models.AppointmentResource
	opDevices     []models.OperationDevice

	nextID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		doctors:   map[uint]*models.User{},
		resources: map[uint]models.Resource{},
		nextID:    100,
	}
}

func overlapsSpan(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func (s *fakeStore) addDoctor(id uint, firstName, lastName string) *models.User {
	u := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     lastName + "@praxis.test",
		Active:    true,
		Role:      models.Role{Name: "doctor"},
	}
	u.ID = id
	s.doctors[id] = u
	return u
}

func (s *fakeStore) addResource(id uint, name string, typ models.ResourceType) {
	r := models.Resource{Name: name, Type: typ, Active: true}
	r.ID = id
	s.resources[id] = r
}

func (s *fakeStore) addAppointment(id, patientID, doctorID uint, start, end time.Time, status models.AppointmentStatus, resourceIDs ...uint) {
	a := models.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	a.ID = id
	s.appointments = append(s.appointments, a)
	for _, rid := range resourceIDs {
		ar := models.AppointmentResource{AppointmentID: id, ResourceID: rid}
		ar.ID = s.allocID()
		s.apptResources = append(s.apptResources, ar)
	}
}

func (s *fakeStore) addOperation(id, patientID, surgeonID, roomID uint, start, end time.Time, status models.OperationStatus, deviceIDs ...uint) {
	o := models.Operation{
		PatientID:        patientID,
		PrimarySurgeonID: surgeonID,
		OpRoomID:         roomID,
		StartTime:        start,
		EndTime:          end,
		Status:           status,
	}
	o.ID = id
	s.operations = append(s.operations, o)
	for _, did := range deviceIDs {
		od := models.OperationDevice{OperationID: id, ResourceID: did}
		od.ID = s.allocID()
		s.opDevices = append(s.opDevices, od)
	}
}

func (s *fakeStore) allocID() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) PracticeHoursFor(weekday time.Weekday) ([]models.PracticeHours, error) {
	var out []models.PracticeHours
	for _, h := range s.practiceHours {
		if h.Active && h.Weekday == models.DayOfWeek(weekday) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeStore) DoctorHoursFor(doctorID uint, weekday time.Weekday) ([]models.DoctorHours, error) {
	var out []models.DoctorHours
	for _, h := range s.doctorHours {
		if h.Active && h.DoctorID == doctorID && h.Weekday == models.DayOfWeek(weekday) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *fakeStore) AbsencesOverlapping(doctorID uint, startDate, endDate time.Time) ([]models.DoctorAbsence, error) {
	var out []models.DoctorAbsence
	for _, a := range s.absences {
		if a.Active && a.DoctorID == doctorID &&
			!a.StartDate.After(endDate) && !a.EndDate.Before(startDate) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) BreaksOn(date time.Time, doctorID uint) ([]models.DoctorBreak, error) {
	var out []models.DoctorBreak
	for _, b := range s.breaks {
		if b.Active && b.Date.Equal(date) && b.AppliesTo(doctorID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) DoctorByID(id uint) (*models.User, error) {
	return s.doctors[id], nil
}

func (s *fakeStore) ActiveDoctors(excludeID uint) ([]models.User, error) {
	var out []models.User
	for _, d := range s.doctors {
		if d.ID != excludeID && d.Active && d.Role.Name == "doctor" {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) ResourcesByIDs(ids []uint) ([]models.Resource, error) {
	var out []models.Resource
	for _, id := range ids {
		if r, ok := s.resources[id]; ok && r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) PatientAppointmentOverlap(patientID uint, start, end time.Time, excludeID uint) (*models.Appointment, error) {
	for i := range s.appointments {
		a := &s.appointments[i]
		if a.ID == excludeID || a.Status == models.StatusCanceled || a.PatientID != patientID {
			continue
		}
		if overlapsSpan(a.StartTime, a.EndTime, start, end) {
			return a, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) PatientOperationOverlap(patientID uint, start, end time.Time, excludeID uint) (*models.Operation, error) {
	for i := range s.operations {
		o := &s.operations[i]
		if o.ID == excludeID || o.Status == models.OpCanceled || o.PatientID != patientID {
			continue
		}
		if overlapsSpan(o.StartTime, o.EndTime, start, end) {
			return o, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) DoctorAppointmentOverlap(doctorID uint, start, end time.Time, excludeID uint) (*models.Appointment, error) {
	for i := range s.appointments {
		a := &s.appointments[i]
		if a.ID == excludeID || a.Status == models.StatusCanceled || a.DoctorID != doctorID {
			continue
		}
		if overlapsSpan(a.StartTime, a.EndTime, start, end) {
			return a, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) DoctorOperationOverlap(doctorID uint, start, end time.Time, excludeID uint) (*models.Operation, error) {
	for i := range s.operations {
		o := &s.operations[i]
		if o.ID == excludeID || o.Status == models.OpCanceled {
			continue
		}
		involved := o.PrimarySurgeonID == doctorID ||
			(o.AssistantID != nil && *o.AssistantID == doctorID) ||
			(o.AnesthesistID != nil && *o.AnesthesistID == doctorID)
		if involved && overlapsSpan(o.StartTime, o.EndTime, start, end) {
			return o, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) AppointmentResourceOverlap(resourceIDs []uint, start, end time.Time, excludeAppointmentID uint) (*models.AppointmentResource, error) {
	wanted := map[uint]bool{}
	for _, id := range resourceIDs {
		wanted[id] = true
	}
	for i := range s.apptResources {
		ar := &s.apptResources[i]
		if !wanted[ar.ResourceID] || ar.AppointmentID == excludeAppointmentID {
			continue
		}
		for j := range s.appointments {
			a := &s.appointments[j]
			if a.ID != ar.AppointmentID || a.Status == models.StatusCanceled {
				continue
			}
			if overlapsSpan(a.StartTime, a.EndTime, start, end) {
				return ar, nil
			}
		}
	}
	return nil, nil
}

func (s *fakeStore) OperationRoomOverlap(roomIDs []uint, start, end time.Time, excludeOperationID uint) (*models.Operation, error) {
	wanted := map[uint]bool{}
	for _, id := range roomIDs {
		wanted[id] = true
	}
	for i := range s.operations {
		o := &s.operations[i]
		if o.ID == excludeOperationID || o.Status == models.OpCanceled || !wanted[o.OpRoomID] {
			continue
		}
		if overlapsSpan(o.StartTime, o.EndTime, start, end) {
			return o, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) OperationDeviceOverlap(deviceIDs []uint, start, end time.Time, excludeOperationID uint) (*models.OperationDevice, error) {
	wanted := map[uint]bool{}
	for _, id := range deviceIDs {
		wanted[id] = true
	}
	for i := range s.opDevices {
		od := &s.opDevices[i]
		if !wanted[od.ResourceID] || od.OperationID == excludeOperationID {
			continue
		}
		for j := range s.operations {
			o := &s.operations[j]
			if o.ID != od.OperationID || o.Status == models.OpCanceled {
				continue
			}
			if overlapsSpan(o.StartTime, o.EndTime, start, end) {
				return od, nil
			}
		}
	}
	return nil, nil
}

func (s *fakeStore) CommitAppointment(appt *models.Appointment, resourceIDs []uint, recheck func(Store) error) error {
	if err := recheck(s); err != nil {
		return err
	}
	appt.ID = s.allocID()
	s.appointments = append(s.appointments, *appt)
	for _, rid := range resourceIDs {
		ar := models.AppointmentResource{AppointmentID: appt.ID, ResourceID: rid}
		ar.ID = s.allocID()
		s.apptResources = append(s.apptResources, ar)
	}
	return nil
}

func (s *fakeStore) CommitOperation(op *models.Operation, deviceIDs []uint, recheck func(Store) error) error {
	if err := recheck(s); err != nil {
		return err
	}
	op.ID = s.allocID()
	s.operations = append(s.operations, *op)
	for _, did := range deviceIDs {
		od := models.OperationDevice{OperationID: op.ID, ResourceID: did}
		od.ID = s.allocID()
		s.opDevices = append(s.opDevices, od)
	}
	return nil
}

// Test fixture helpers.

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(date time.Time, h, m int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}

// monday is the anchor date for most tests: 2026-03-02 falls on a Monday.
var monday = day(2026, time.March, 2)

// withWeekHours installs practice hours 08:00-18:00 and doctor hours
// 09:00-17:00 for Monday through Friday for the doctor.
func withWeekHours(s *fakeStore, doctorID uint) {
	addPractice := len(s.practiceHours) == 0
	for wd := models.Monday; wd <= models.Friday; wd++ {
		if addPractice {
			s.practiceHours = append(s.practiceHours, models.PracticeHours{
				Weekday: wd, StartTime: "08:00", EndTime: "18:00", Active: true,
			})
		}
		s.doctorHours = append(s.doctorHours, models.DoctorHours{
			DoctorID: doctorID, Weekday: wd, StartTime: "09:00", EndTime: "17:00", Active: true,
		})
	}
}
