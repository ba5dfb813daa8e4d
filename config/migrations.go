package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"colliss.co.uk/intake/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_submission_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.VehicleSubmission{}, &models.VehicleMedia{})
			},
		},
		{
			ID: "20250812_cascade_media_on_submission_delete",
			Migrate: func(tx *gorm.DB) error {
				// AutoMigrate leaves the FK without ON DELETE; the intake
				// compensation path relies on the cascade.
				if err := tx.Exec("ALTER TABLE vehicle_media DROP CONSTRAINT IF EXISTS fk_vehicle_submissions_media").Error; err != nil {
					return err
				}
				return tx.Exec(`ALTER TABLE vehicle_media
					ADD CONSTRAINT fk_vehicle_submissions_media
					FOREIGN KEY (submission_id) REFERENCES vehicle_submissions(id)
					ON DELETE CASCADE`).Error
			},
		},
		{
			ID: "20250902_add_email_logs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.EmailLog{})
			},
		},
	})

	return m.Migrate()
}
