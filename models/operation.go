package models

import (
	"time"

	"gorm.io/gorm"
)

type OperationStatus string

const (
	OpPlanned  OperationStatus = "planned"
	OpRunning  OperationStatus = "running"
	OpDone     OperationStatus = "done"
	OpCanceled OperationStatus = "canceled"
)

// Operation is an operating-room procedure. Unlike appointments it may
// span several calendar days and always occupies a room.
type Operation struct {
	gorm.Model
	Title            string            `json:"title"`
	Notes            string            `json:"notes"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          time.Time         `json:"end_time"`
	Status           OperationStatus   `json:"status"`
	PatientID        uint              `json:"patient_id"`
	Patient          Patient           `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	PrimarySurgeonID uint              `json:"primary_surgeon_id"`
	PrimarySurgeon   User              `json:"primary_surgeon,omitempty" gorm:"foreignKey:PrimarySurgeonID"`
	AssistantID      *uint             `json:"assistant_id"`
	Assistant        *User             `json:"assistant,omitempty" gorm:"foreignKey:AssistantID"`
	AnesthesistID    *uint             `json:"anesthesist_id"`
	Anesthesist      *User             `json:"anesthesist,omitempty" gorm:"foreignKey:AnesthesistID"`
	OpRoomID         uint              `json:"op_room_id"`
	OpRoom           Resource          `json:"op_room,omitempty" gorm:"foreignKey:OpRoomID"`
	Devices          []OperationDevice `json:"devices,omitempty" gorm:"foreignKey:OperationID"`
}

// OperationDevice allocates a device to an operation.
type OperationDevice struct {
	gorm.Model
	OperationID uint      `json:"operation_id"`
	Operation   Operation `json:"-" gorm:"foreignKey:OperationID"`
	ResourceID  uint      `json:"resource_id"`
	Resource    Resource  `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`
}

func (o *Operation) BeforeCreate(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OpPlanned
	}
	return nil
}

// ParticipantIDs lists every doctor involved in the operation.
func (o *Operation) ParticipantIDs() []uint {
	ids := []uint{o.PrimarySurgeonID}
	if o.AssistantID != nil {
		ids = append(ids, *o.AssistantID)
	}
	if o.AnesthesistID != nil {
		ids = append(ids, *o.AnesthesistID)
	}
	return ids
}
