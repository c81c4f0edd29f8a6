package database

import (
	"github.com/gestortareas/api/internal/model"
	"github.com/gestortareas/api/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs the schema auto-migration for all models
func Migrate(db *gorm.DB) error {
	logger.GetLogger().Info("Running database migrations")

	if err := db.AutoMigrate(
		&model.User{},
		&model.Task{},
	); err != nil {
		return err
	}

	logger.GetLogger().Info("Database migrations completed")
	return nil
}
