package services

import (
	"testing"

	"rentease_backend/internal/models"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSharedRentalFixture(rentals ...*models.SharedRental) (*SharedRentalServiceImpl, *fakeSharedRentalRepo, *fakeNotifier) {
	repo := newFakeSharedRentalRepo(rentals...)
	notifier := &fakeNotifier{}
	properties := newFakePropertyRepo(
		&models.Property{BaseModel: models.BaseModel{ID: "prop-1"}, AgentProfileID: "agent-1", Status: models.PropertyStatusApproved},
		&models.Property{BaseModel: models.BaseModel{ID: "prop-draft"}, AgentProfileID: "agent-1", Status: models.PropertyStatusPending},
	)
	return NewSharedRentalService(repo, properties, notifier).(*SharedRentalServiceImpl), repo, notifier
}

func activeRental() *models.SharedRental {
	return &models.SharedRental{
		BaseModel:  models.BaseModel{ID: "sr-1"},
		OwnerID:    "student-1",
		PropertyID: "prop-1",
		Title:      "Looking for a flatmate",
		Status:     models.SharedRentalStatusActive,
	}
}

func TestSharedRentalCreate(t *testing.T) {
	svc, repo, _ := newSharedRentalFixture()
	db, _ := newMockDB(t)
	student := session("student-1", models.UserRoleStudent)

	rental, err := svc.Create(db, student, &dto.CreateSharedRentalRequest{
		PropertyID:    "prop-1",
		Title:         " Room share ",
		MonthlyShare:  120,
		AvailableFrom: "2024-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Room share", rental.Title)
	assert.Equal(t, models.SharedRentalStatusActive, rental.Status)
	assert.Equal(t, 2024, rental.AvailableFrom.Year())
	assert.Len(t, repo.items, 1)

	_, err = svc.Create(db, student, &dto.CreateSharedRentalRequest{PropertyID: "prop-draft", Title: "x", MonthlyShare: 1, AvailableFrom: "2024-09-01"})
	assert.ErrorIs(t, err, apperrors.ErrPropertyNotApproved)

	_, err = svc.Create(db, student, &dto.CreateSharedRentalRequest{PropertyID: "prop-1", Title: "x", MonthlyShare: 1, AvailableFrom: "01/09/2024"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	_, err = svc.Create(db, session("agent-1", models.UserRoleAgent), &dto.CreateSharedRentalRequest{PropertyID: "prop-1", Title: "x", MonthlyShare: 1, AvailableFrom: "2024-09-01"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.Len(t, repo.items, 1)
}

func TestSharedRentalExpressInterest(t *testing.T) {
	svc, repo, notifier := newSharedRentalFixture(activeRental())
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	interest, err := svc.ExpressInterest(db, session("student-2", models.UserRoleStudent), "sr-1", &dto.ExpressInterestRequest{Message: "Hi!"})

	require.NoError(t, err)
	assert.Equal(t, "sr-1", interest.SharedRentalID)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "student-1", notifier.notices[0].UserID)
	assert.Equal(t, models.NotificationSharedRentalInterest, notifier.notices[0].Type)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.ExpressInterest(db, session("student-2", models.UserRoleStudent), "sr-1", &dto.ExpressInterestRequest{})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
	assert.Len(t, repo.interests, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSharedRentalExpressInterest_Rejections(t *testing.T) {
	archived := activeRental()
	archived.ID = "sr-2"
	archived.Status = models.SharedRentalStatusArchived

	tests := []struct {
		name  string
		actor string
		id    string
		code  apperrors.ErrorCode
	}{
		{name: "own listing", actor: "student-1", id: "sr-1", code: apperrors.CodeInvalidOperation},
		{name: "archived listing", actor: "student-2", id: "sr-2", code: apperrors.CodeInvalidOperation},
		{name: "missing listing", actor: "student-2", id: "sr-9", code: apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := *archived
			svc, repo, notifier := newSharedRentalFixture(activeRental(), &a)
			db, mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectRollback()

			_, err := svc.ExpressInterest(db, session(tt.actor, models.UserRoleStudent), tt.id, &dto.ExpressInterestRequest{})

			appErr, ok := apperrors.AsAppError(err)
			require.True(t, ok, "expected AppError, got %v", err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Empty(t, repo.interests)
			assert.Empty(t, notifier.notices)
		})
	}
}

func TestSharedRentalArchive(t *testing.T) {
	svc, repo, _ := newSharedRentalFixture(activeRental())
	db, _ := newMockDB(t)

	err := svc.Archive(db, session("student-2", models.UserRoleStudent), "sr-1")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	require.NoError(t, svc.Archive(db, session("student-1", models.UserRoleStudent), "sr-1"))
	assert.Equal(t, models.SharedRentalStatusArchived, repo.items["sr-1"].Status)

	err = svc.Archive(db, session("student-1", models.UserRoleStudent), "sr-1")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidTransition, appErr.Code)

	list, err := svc.ListActive(db, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, list.Total)
}

func TestSharedRentalListInterests_OwnerOnly(t *testing.T) {
	svc, repo, _ := newSharedRentalFixture(activeRental())
	repo.interests = []models.SharedRentalInterest{{SharedRentalID: "sr-1", StudentID: "student-2"}}
	db, _ := newMockDB(t)

	_, err := svc.ListInterests(db, session("student-2", models.UserRoleStudent), "sr-1")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	interests, err := svc.ListInterests(db, session("student-1", models.UserRoleStudent), "sr-1")
	require.NoError(t, err)
	assert.Len(t, interests, 1)
}
