package database

import (
	"fmt"

	"rentease_backend/internal/logger"
	"rentease_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect открывает пул соединений и проверяет доступность БД
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return db, nil
}

// Models - все таблицы приложения в порядке зависимостей
func Models() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.AgentVerification{},
		&models.Property{},
		&models.SavedProperty{},
		&models.Booking{},
		&models.Notification{},
		&models.OutboxEvent{},
		&models.Report{},
		&models.Review{},
		&models.SharedRental{},
		&models.SharedRentalInterest{},
	}
}

// AutoMigrate выполняет миграцию всех моделей. uuid_generate_v4() нужен
// для первичных ключей.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("Database migrated", "tables", len(Models()))
	return nil
}
