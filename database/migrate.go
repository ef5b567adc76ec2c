package database

import (
	"craftlink_backend/internal/models"

	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every model. Safe to call on every startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.UserProfile{},
		&models.PortfolioItem{},
		&models.Job{},
		&models.Proposal{},
		&models.Notification{},
		&models.Rating{},
		&models.ServiceListing{},
		&models.ServiceSkill{},
		&models.Upload{},
	)
}
