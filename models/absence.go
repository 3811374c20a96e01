package models

import (
	"time"

	"gorm.io/gorm"
)

// DoctorAbsence blocks a doctor for an inclusive date range (vacation,
// sickness, congress) regardless of time of day.
type DoctorAbsence struct {
	gorm.Model
	DoctorID  uint      `json:"doctor_id"`
	Doctor    User      `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	StartDate time.Time `json:"start_date" gorm:"type:date"`
	EndDate   time.Time `json:"end_date" gorm:"type:date"`
	Reason    string    `json:"reason"`
	Active    bool      `json:"active" gorm:"default:true"`
}
