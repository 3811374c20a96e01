package utils

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxismed/praxis-scheduler/models"
)

// DBAuditSink writes audit rows through GORM. All failures are logged
// and swallowed: audit must never fail a scheduling call.
type DBAuditSink struct {
	DB *gorm.DB
}

func NewAuditSink(db *gorm.DB) *DBAuditSink {
	return &DBAuditSink{DB: db}
}

func (s *DBAuditSink) Record(userID uint, action string, patientID *uint, meta map[string]interface{}) {
	var encoded string
	if meta != nil {
		b, err := json.Marshal(meta)
		if err != nil {
			log.Printf("audit: failed to encode meta for %s: %v", action, err)
		} else {
			encoded = string(b)
		}
	}
	entry := models.AuditLog{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Action:    action,
		PatientID: patientID,
		Meta:      encoded,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to write %s: %v", action, err)
	}
}
