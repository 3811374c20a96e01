package models

import (
	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// PracticeHours is a clinic-wide opening window for one weekday.
// Several rows per weekday model split shifts.
type PracticeHours struct {
	gorm.Model
	Weekday   DayOfWeek `json:"weekday"`
	StartTime string    `json:"start_time"` // "HH:MM" 24h, local practice time
	EndTime   string    `json:"end_time"`   // "HH:MM" 24h
	Active    bool      `json:"active" gorm:"default:true"`
}

// DoctorHours is a doctor's working window for one weekday.
type DoctorHours struct {
	gorm.Model
	DoctorID  uint      `json:"doctor_id"`
	Doctor    User      `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Weekday   DayOfWeek `json:"weekday"`
	StartTime string    `json:"start_time"` // "HH:MM" 24h
	EndTime   string    `json:"end_time"`   // "HH:MM" 24h
	Active    bool      `json:"active" gorm:"default:true"`
}
