package database

import (
	"fmt"

	"csss-site/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.OfficerTerm{},
		&models.Election{},
		&models.NomineeInfo{},
		&models.Registration{},
		&models.BlogPost{},
		&models.Exam{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
