package models

import (
	"time"
)

// AuditLog records scheduling-relevant actions (conflicts, commits,
// administrative edits). Writes are fire-and-forget from the caller's
// point of view.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   string    `json:"event_id" gorm:"size:36;index"`
	UserID    uint      `json:"user_id"`
	Action    string    `json:"action"`
	PatientID *uint     `json:"patient_id"`
	Meta      string    `json:"meta"` // JSON-encoded detail blob
	CreatedAt time.Time `json:"created_at"`
}
