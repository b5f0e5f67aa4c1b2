package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name   string
		in     Pagination
		offset int
		limit  int
	}{
		{"defaults", Pagination{}, 0, 20},
		{"second page", Pagination{Page: 2, PageSize: 10}, 10, 10},
		{"capped", Pagination{Page: 1, PageSize: 500}, 0, 100},
		{"negative page", Pagination{Page: -3, PageSize: 5}, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.offset, tt.in.Offset())
			assert.Equal(t, tt.limit, tt.in.Limit())
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_x" (SQLSTATE 23505)`)))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(nil))
}

func TestNotificationMarkAsRead_OtherUsersRowIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository()

	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkAsRead(db, "user-1", "notif-of-user-2", time.Now())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationMarkAsRead_OwnRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository()

	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkAsRead(db, "user-1", "notif-1", time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationFindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository()

	mock.ExpectQuery(`SELECT \* FROM "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(db, "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestBookingSlotTaken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository()

	mock.ExpectQuery(`SELECT "id" FROM "bookings" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("booking-1"))

	taken, err := repo.SlotTaken(db, "prop-1", "2024-05-01", "10:00", "")
	require.NoError(t, err)
	assert.True(t, taken)

	mock.ExpectQuery(`SELECT "id" FROM "bookings" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	taken, err = repo.SlotTaken(db, "prop-1", "2024-05-01", "11:00", "booking-1")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxClaimBatch_SkipsLockedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository()

	rows := sqlmock.NewRows([]string{"id", "event_type", "payload", "status", "attempts"}).
		AddRow("evt-1", "email.send", []byte(`{"template":"welcome"}`), "pending", 0)
	mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE .* FOR UPDATE SKIP LOCKED`).
		WillReturnRows(rows)

	events, err := repo.ClaimBatch(db, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "email.send", events[0].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileCountByRoleForUpdate_LocksRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository()

	mock.ExpectQuery(`SELECT "id" FROM "profiles" WHERE role = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("admin-1").AddRow("admin-2"))

	n, err := repo.CountByRoleForUpdate(db, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
