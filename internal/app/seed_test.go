package app

import (
	"testing"

	"rentease_backend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedFirstAdmin_SkipsWithoutCredentials(t *testing.T) {
	assert.NoError(t, seedFirstAdmin(nil, &config.Config{}))
}

func TestSeedFirstAdmin_ExistingAdminIsKept(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow("admin-1", "admin@rentease.test", "admin"))
	mock.ExpectRollback()

	cfg := &config.Config{FirstAdminEmail: " Admin@RentEase.test ", FirstAdminPassword: "secret123"}
	require.NoError(t, seedFirstAdmin(db, cfg))
	assert.NoError(t, mock.ExpectationsWereMet())
}
