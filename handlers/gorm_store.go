package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"colliss.co.uk/intake/models"
)

// GormStore is the Postgres-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateSubmission(ctx context.Context, sub *models.VehicleSubmission) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *GormStore) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.VehicleSubmission{}, "id = ?", id).Error
}

func (s *GormStore) GetSubmission(ctx context.Context, id uuid.UUID) (*models.VehicleSubmission, error) {
	var sub models.VehicleSubmission
	err := s.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) ListSubmissions(ctx context.Context) ([]models.VehicleSubmission, error) {
	var subs []models.VehicleSubmission
	err := s.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order")
		}).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (s *GormStore) UpdateSubmissionStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (*models.VehicleSubmission, error) {
	// updated_at is set explicitly so a self-transition still bumps it.
	result := s.db.WithContext(ctx).
		Model(&models.VehicleSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var sub models.VehicleSubmission
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) CreateMedia(ctx context.Context, media *models.VehicleMedia) error {
	return s.db.WithContext(ctx).Create(media).Error
}

func (s *GormStore) CreateEmailLog(ctx context.Context, entry *models.EmailLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormStore) ListEmailLogs(ctx context.Context) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&logs).Error
	return logs, err
}
