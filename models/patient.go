package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Insurance string     `json:"insurance"`
}

// DisplayName renders "Lastname, Firstname (YYYY-MM-DD)" for pickers and audit entries.
func (p *Patient) DisplayName() string {
	name := fmt.Sprintf("%s, %s", p.LastName, p.FirstName)
	if p.BirthDate != nil {
		name = fmt.Sprintf("%s (%s)", name, p.BirthDate.Format("2006-01-02"))
	}
	return name
}
