package app

import (
	"errors"
	"fmt"
	"strings"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/config"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

// seedFirstAdmin создает первого администратора из FIRST_ADMIN_EMAIL /
// FIRST_ADMIN_PASSWORD. Если профиль уже есть, ничего не делает.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdminEmail))
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var existing models.Profile
	result := tx.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Profile{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		FullName:     "RentEase Administration",
		Role:         models.UserRoleAdmin,
	}
	if err := tx.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return tx.Commit().Error
}
