package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/models"
)

// RunMigrations runs GORM auto-migrations for every persistent record the
// sync core owns.
func RunMigrations(db *gorm.DB) error {
	return MigrateModels(db,
		&models.GameTitle{},
		&models.GameRelease{},
		&models.ExternalMapping{},
		&models.LibraryEntry{},
		&models.DigitalCopy{},
		&models.SyncJob{},
		&models.ExternalAccount{},
		&models.ConnectorDevice{},
	)
}

// MigrateModels runs GORM auto-migrations for the given models.
func MigrateModels(db *gorm.DB, entities ...interface{}) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			return fmt.Errorf("failed to create UUID extension: %w", err)
		}
	}

	if err := db.AutoMigrate(entities...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
