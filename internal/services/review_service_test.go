package services

import (
	"testing"

	"rentease_backend/internal/models"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewFixture(bookings ...*models.Booking) (*ReviewServiceImpl, *fakeReviewRepo, *fakeNotifier) {
	reviews := &fakeReviewRepo{}
	notifier := &fakeNotifier{}
	properties := newFakePropertyRepo(
		&models.Property{BaseModel: models.BaseModel{ID: "prop-1"}, AgentProfileID: "agent-1", Title: "Studio", Status: models.PropertyStatusApproved},
	)
	svc := NewReviewService(reviews, properties, newFakeBookingRepo(bookings...), notifier).(*ReviewServiceImpl)
	return svc, reviews, notifier
}

func completedBooking() *models.Booking {
	b := pendingBooking()
	b.Status = models.BookingStatusCompleted
	return b
}

func TestReviewCreate_AfterCompletedViewing(t *testing.T) {
	svc, reviews, notifier := newReviewFixture(completedBooking())
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	review, err := svc.Create(db, session("student-1", models.UserRoleStudent), &dto.CreateReviewRequest{
		PropertyID: "prop-1",
		Rating:     4,
		Comment:    "Quiet and close to campus",
	})

	require.NoError(t, err)
	assert.Equal(t, "student-1", review.StudentID)
	assert.Len(t, reviews.items, 1)
	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "agent-1", notifier.notices[0].UserID)
	assert.Equal(t, models.NotificationNewReview, notifier.notices[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewCreate_Rejections(t *testing.T) {
	t.Run("no completed viewing", func(t *testing.T) {
		svc, reviews, _ := newReviewFixture(pendingBooking())
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(db, session("student-1", models.UserRoleStudent), &dto.CreateReviewRequest{PropertyID: "prop-1", Rating: 5})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
		assert.Empty(t, reviews.items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second review", func(t *testing.T) {
		svc, reviews, _ := newReviewFixture(completedBooking())
		reviews.items = append(reviews.items, models.Review{PropertyID: "prop-1", StudentID: "student-1", Rating: 3})
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(db, session("student-1", models.UserRoleStudent), &dto.CreateReviewRequest{PropertyID: "prop-1", Rating: 5})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
		assert.Len(t, reviews.items, 1)
	})

	t.Run("agent cannot review", func(t *testing.T) {
		svc, _, _ := newReviewFixture(completedBooking())
		db, _ := newMockDB(t)

		_, err := svc.Create(db, session("agent-1", models.UserRoleAgent), &dto.CreateReviewRequest{PropertyID: "prop-1", Rating: 5})

		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})
}

func TestReviewListForProperty_Average(t *testing.T) {
	svc, reviews, _ := newReviewFixture()
	reviews.items = []models.Review{
		{PropertyID: "prop-1", StudentID: "s-1", Rating: 5},
		{PropertyID: "prop-1", StudentID: "s-2", Rating: 2},
		{PropertyID: "prop-2", StudentID: "s-1", Rating: 1},
	}
	db, _ := newMockDB(t)

	resp, err := svc.ListForProperty(db, "prop-1", 0, 0)

	require.NoError(t, err)
	assert.Len(t, resp.Reviews, 2)
	assert.InDelta(t, 3.5, resp.AverageRating, 0.001)
	assert.Equal(t, 1, resp.Page)
	assert.EqualValues(t, 2, resp.Total)
}
