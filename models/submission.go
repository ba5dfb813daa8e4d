package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus tracks where a submission sits in the triage lifecycle.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusReviewing SubmissionStatus = "reviewing"
	StatusQuoted    SubmissionStatus = "quoted"
	StatusCompleted SubmissionStatus = "completed"
)

// ValidStatus reports whether s is one of the four recognized statuses.
// Transitions are unordered: any status may follow any other, including itself.
func ValidStatus(s SubmissionStatus) bool {
	switch s {
	case StatusPending, StatusReviewing, StatusQuoted, StatusCompleted:
		return true
	}
	return false
}

// VehicleCondition is the owner's own rating of the vehicle.
type VehicleCondition string

const (
	ConditionExcellent VehicleCondition = "excellent"
	ConditionGood      VehicleCondition = "good"
	ConditionFair      VehicleCondition = "fair"
	ConditionPoor      VehicleCondition = "poor"
)

// VehicleSubmission is one owner's intake record: contact details, the
// vehicle description, and free-text condition notes. Status always starts
// at pending and is only ever changed through the status update endpoint.
type VehicleSubmission struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	Status    SubmissionStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	OwnerName  string `gorm:"not null" json:"owner_name" validate:"required"`
	OwnerEmail string `gorm:"not null" json:"owner_email" validate:"required,email"`
	OwnerPhone string `gorm:"not null" json:"owner_phone" validate:"required"`

	Year           int    `gorm:"not null" json:"year" validate:"required"`
	Make           string `gorm:"not null" json:"make" validate:"required"`
	Model          string `gorm:"not null" json:"model" validate:"required"`
	Trim           string `json:"trim" validate:"omitempty"`
	Mileage        int    `gorm:"not null" json:"mileage" validate:"gte=0"`
	VIN            string `gorm:"column:vin;type:varchar(17)" json:"vin" validate:"omitempty,len=17"`
	ColourExterior string `gorm:"not null" json:"colour_exterior" validate:"required"`
	ColourInterior string `gorm:"not null" json:"colour_interior" validate:"required"`

	Condition       VehicleCondition `gorm:"type:varchar(10);not null" json:"condition" validate:"required,oneof=excellent good fair poor"`
	AccidentHistory bool             `json:"accident_history"`
	ServiceHistory  string           `gorm:"type:text;not null" json:"service_history" validate:"required"`
	Modifications   string           `gorm:"type:text" json:"modifications"`
	Issues          string           `gorm:"type:text" json:"issues"`
	AdditionalNotes string           `gorm:"type:text" json:"additional_notes"`

	Media []VehicleMedia `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

func (VehicleSubmission) TableName() string {
	return "vehicle_submissions"
}
