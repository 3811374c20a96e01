package db

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/praxismed/praxis-scheduler/models"
	"github.com/praxismed/praxis-scheduler/scheduling"
)

// GormStore implements scheduling.Store on the shared connection.
type GormStore struct {
	DB *gorm.DB
}

// NewStore returns a store bound to the global connection.
func NewStore() *GormStore {
	return &GormStore{DB: DB}
}

const dateLayout = "2006-01-02"

func (s *GormStore) PracticeHoursFor(weekday time.Weekday) ([]models.PracticeHours, error) {
	var rules []models.PracticeHours
	err := s.DB.Where("weekday = ? AND active = ?", int(weekday), true).
		Order("start_time, id").Find(&rules).Error
	return rules, err
}

func (s *GormStore) DoctorHoursFor(doctorID uint, weekday time.Weekday) ([]models.DoctorHours, error) {
	var rules []models.DoctorHours
	err := s.DB.Where("doctor_id = ? AND weekday = ? AND active = ?", doctorID, int(weekday), true).
		Order("start_time, id").Find(&rules).Error
	return rules, err
}

func (s *GormStore) AbsencesOverlapping(doctorID uint, startDate, endDate time.Time) ([]models.DoctorAbsence, error) {
	var absences []models.DoctorAbsence
	err := s.DB.Where("doctor_id = ? AND active = ? AND start_date <= ? AND end_date >= ?",
		doctorID, true, endDate.Format(dateLayout), startDate.Format(dateLayout)).
		Find(&absences).Error
	return absences, err
}

func (s *GormStore) BreaksOn(date time.Time, doctorID uint) ([]models.DoctorBreak, error) {
	var breaks []models.DoctorBreak
	err := s.DB.Where("active = ? AND date = ? AND (doctor_id IS NULL OR doctor_id = ?)",
		true, date.Format(dateLayout), doctorID).
		Order("start_time, id").Find(&breaks).Error
	return breaks, err
}

func (s *GormStore) DoctorByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("Role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) ActiveDoctors(excludeID uint) ([]models.User, error) {
	var doctors []models.User
	q := s.DB.Preload("Role").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ? AND users.active = ?", "doctor", true)
	if excludeID != 0 {
		q = q.Where("users.id <> ?", excludeID)
	}
	err := q.Order("users.id").Find(&doctors).Error
	return doctors, err
}

func (s *GormStore) ResourcesByIDs(ids []uint) ([]models.Resource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resources []models.Resource
	err := s.DB.Where("id IN ? AND active = ?", ids, true).Order("id").Find(&resources).Error
	return resources, err
}

// Overlap probes. All share the half-open predicate
// start_time < requestEnd AND end_time > requestStart and skip
// canceled bookings.

func (s *GormStore) PatientAppointmentOverlap(patientID uint, start, end time.Time, excludeID uint) (*models.Appointment, error) {
	var appt models.Appointment
	q := s.DB.Where("patient_id = ? AND start_time < ? AND end_time > ? AND status <> ?",
		patientID, end, start, models.StatusCanceled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("start_time, id").First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) PatientOperationOverlap(patientID uint, start, end time.Time, excludeID uint) (*models.Operation, error) {
	var op models.Operation
	q := s.DB.Where("patient_id = ? AND start_time < ? AND end_time > ? AND status <> ?",
		patientID, end, start, models.OpCanceled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("start_time, id").First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (s *GormStore) DoctorAppointmentOverlap(doctorID uint, start, end time.Time, excludeID uint) (*models.Appointment, error) {
	var appt models.Appointment
	q := s.DB.Where("doctor_id = ? AND start_time < ? AND end_time > ? AND status <> ?",
		doctorID, end, start, models.StatusCanceled)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Order("start_time, id").First(&appt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) DoctorOperationOverlap(doctorID uint, start, end time.Time, excludeOperationID uint) (*models.Operation, error) {
	var op models.Operation
	q := s.DB.Where("primary_surgeon_id = ? OR assistant_id = ? OR anesthesist_id = ?",
		doctorID, doctorID, doctorID).
		Where("start_time < ? AND end_time > ? AND status <> ?", end, start, models.OpCanceled)
	if excludeOperationID != 0 {
		q = q.Where("id <> ?", excludeOperationID)
	}
	err := q.Order("start_time, id").First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (s *GormStore) AppointmentResourceOverlap(resourceIDs []uint, start, end time.Time, excludeAppointmentID uint) (*models.AppointmentResource, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}
	var ar models.AppointmentResource
	q := s.DB.Joins("JOIN appointments ON appointments.id = appointment_resources.appointment_id").
		Where("appointment_resources.resource_id IN ?", resourceIDs).
		Where("appointments.start_time < ? AND appointments.end_time > ?", end, start).
		Where("appointments.status <> ?", models.StatusCanceled).
		Where("appointments.deleted_at IS NULL")
	if excludeAppointmentID != 0 {
		q = q.Where("appointment_resources.appointment_id <> ?", excludeAppointmentID)
	}
	err := q.Order("appointment_resources.id").First(&ar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ar, nil
}

func (s *GormStore) OperationRoomOverlap(roomIDs []uint, start, end time.Time, excludeOperationID uint) (*models.Operation, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}
	var op models.Operation
	q := s.DB.Where("op_room_id IN ? AND start_time < ? AND end_time > ? AND status <> ?",
		roomIDs, end, start, models.OpCanceled)
	if excludeOperationID != 0 {
		q = q.Where("id <> ?", excludeOperationID)
	}
	err := q.Order("start_time, id").First(&op).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (s *GormStore) OperationDeviceOverlap(deviceIDs []uint, start, end time.Time, excludeOperationID uint) (*models.OperationDevice, error) {
	if len(deviceIDs) == 0 {
		return nil, nil
	}
	var od models.OperationDevice
	q := s.DB.Joins("JOIN operations ON operations.id = operation_devices.operation_id").
		Where("operation_devices.resource_id IN ?", deviceIDs).
		Where("operations.start_time < ? AND operations.end_time > ?", end, start).
		Where("operations.status <> ?", models.OpCanceled).
		Where("operations.deleted_at IS NULL")
	if excludeOperationID != 0 {
		q = q.Where("operation_devices.operation_id <> ?", excludeOperationID)
	}
	err := q.Order("operations.start_time, operation_devices.operation_id, operation_devices.resource_id").
		First(&od).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &od, nil
}

// CommitAppointment writes the appointment and its resource
// allocations in one transaction. The recheck callback runs first
// against a transaction-scoped store so a concurrent booking that
// landed between validation and commit aborts the write.
func (s *GormStore) CommitAppointment(appt *models.Appointment, resourceIDs []uint, recheck func(scheduling.Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if recheck != nil {
			if err := recheck(&GormStore{DB: tx}); err != nil {
				return err
			}
		}
		if err := tx.Create(appt).Error; err != nil {
			return err
		}
		for _, rid := range resourceIDs {
			ar := models.AppointmentResource{AppointmentID: appt.ID, ResourceID: rid}
			if err := tx.Create(&ar).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CommitOperation mirrors CommitAppointment for operations and their
// device allocations.
func (s *GormStore) CommitOperation(op *models.Operation, deviceIDs []uint, recheck func(scheduling.Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if recheck != nil {
			if err := recheck(&GormStore{DB: tx}); err != nil {
				return err
			}
		}
		if err := tx.Create(op).Error; err != nil {
			return err
		}
		for _, did := range deviceIDs {
			od := models.OperationDevice{OperationID: op.ID, ResourceID: did}
			if err := tx.Create(&od).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
