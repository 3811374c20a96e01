package models

import (
	"strings"
	"time"
)

type User struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Title         string          `json:"title"` // e.g. "Dr. med."
	Email         string          `json:"email" gorm:"unique"`
	Password      string          `json:"password,omitempty"`
	CalendarColor string          `json:"calendar_color"`
	Active        bool            `json:"active" gorm:"default:true"`
	RoleID        uint            `json:"role_id"`
	Role          Role            `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	WorkingHours  []DoctorHours   `json:"working_hours,omitempty" gorm:"foreignKey:DoctorID"`
	Absences      []DoctorAbsence `json:"absences,omitempty" gorm:"foreignKey:DoctorID"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DisplayName builds the label shown in calendars and alternative suggestions.
func (u *User) DisplayName() string {
	parts := []string{}
	if u.Title != "" {
		parts = append(parts, u.Title)
	}
	if u.FirstName != "" {
		parts = append(parts, u.FirstName)
	}
	if u.LastName != "" {
		parts = append(parts, u.LastName)
	}
	if len(parts) == 0 {
		return u.Email
	}
	return strings.Join(parts, " ")
}

// IsDoctor reports whether the user carries the doctor role.
func (u *User) IsDoctor() bool {
	return u.Role.Name == "doctor"
}
