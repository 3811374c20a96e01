package models

import (
	"time"

	"gorm.io/gorm"
)

// DoctorBreak blocks a single date's time-of-day window. A nil DoctorID
// makes the break practice-wide (team meeting, lunch closure).
type DoctorBreak struct {
	gorm.Model
	DoctorID  *uint     `json:"doctor_id"`
	Doctor    *User     `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Date      time.Time `json:"date" gorm:"type:date"`
	StartTime string    `json:"start_time"` // "HH:MM" 24h
	EndTime   string    `json:"end_time"`   // "HH:MM" 24h
	Reason    string    `json:"reason"`
	Active    bool      `json:"active" gorm:"default:true"`
}

// AppliesTo reports whether the break concerns the given doctor.
func (b *DoctorBreak) AppliesTo(doctorID uint) bool {
	return b.DoctorID == nil || *b.DoctorID == doctorID
}
