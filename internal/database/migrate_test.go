package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAutoMigrate_StopsWhenExtensionFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectExec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).
		WillReturnError(errors.New("permission denied"))

	err = AutoMigrate(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uuid-ossp")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModels_CoverEveryTable(t *testing.T) {
	assert.Len(t, Models(), 11)
}
