package handlers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"colliss.co.uk/intake/models"
	"colliss.co.uk/intake/pkg/resend"
)

// Store is the submission repository. The gorm implementation lives in
// gorm_store.go; tests swap in a mock.
type Store interface {
	CreateSubmission(ctx context.Context, sub *models.VehicleSubmission) error
	DeleteSubmission(ctx context.Context, id uuid.UUID) error
	GetSubmission(ctx context.Context, id uuid.UUID) (*models.VehicleSubmission, error)
	ListSubmissions(ctx context.Context) ([]models.VehicleSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (*models.VehicleSubmission, error)

	CreateMedia(ctx context.Context, media *models.VehicleMedia) error

	CreateEmailLog(ctx context.Context, entry *models.EmailLog) error
	ListEmailLogs(ctx context.Context) ([]models.EmailLog, error)
}

// MediaStore holds uploaded binaries and hands back a public URL per object.
type MediaStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

// MailSender sends one transactional email.
type MailSender interface {
	Send(ctx context.Context, email resend.Email) error
}
