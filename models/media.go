package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaType distinguishes the two upload groups on the intake form.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// VehicleMedia is the metadata row for one uploaded photo or video. The
// binary itself lives in the media store; FileURL is its public address.
// DisplayOrder is the 0-based position within the submission's photo or
// video batch and fixes presentation order in the admin panel. Rows are
// written once at intake time and never updated.
type VehicleMedia struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;index;not null" json:"submission_id"`
	MediaType    MediaType `gorm:"type:varchar(10);not null" json:"media_type"`
	FileURL      string    `gorm:"not null" json:"file_url"`
	FileName     string    `gorm:"not null" json:"file_name"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (VehicleMedia) TableName() string {
	return "vehicle_media"
}
