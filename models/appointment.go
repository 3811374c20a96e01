package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCanceled  AppointmentStatus = "canceled"
	StatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	gorm.Model
	Title     string                `json:"title"`
	Notes     string                `json:"notes"`
	StartTime time.Time             `json:"start_time"`
	EndTime   time.Time             `json:"end_time"`
	Status    AppointmentStatus     `json:"status"`
	PatientID uint                  `json:"patient_id"`
	Patient   Patient               `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID  uint                  `json:"doctor_id"`
	Doctor    User                  `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Resources []AppointmentResource `json:"resources,omitempty" gorm:"foreignKey:AppointmentID"`
}

// AppointmentResource allocates a room or device to an appointment.
type AppointmentResource struct {
	gorm.Model
	AppointmentID uint        `json:"appointment_id"`
	Appointment   Appointment `json:"-" gorm:"foreignKey:AppointmentID"`
	ResourceID    uint        `json:"resource_id"`
	Resource      Resource    `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// UpdateStatus moves the appointment through its lifecycle and persists it.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCanceled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCanceled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCanceled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}

	a.Status = newStatus
	return tx.Save(a).Error
}
