package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EmailLog records one transactional email attempt made by the notifier,
// successful or not. Payload keeps the rendered request body so a failed
// send can be inspected and replayed by hand.
type EmailLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubmissionID uuid.UUID      `gorm:"type:uuid;index" json:"submission_id"`
	Recipient    string         `gorm:"not null" json:"recipient"`
	Subject      string         `gorm:"not null" json:"subject"`
	Success      bool           `gorm:"not null" json:"success"`
	Error        string         `gorm:"type:text" json:"error,omitempty"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
