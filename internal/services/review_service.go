package services

import (
	"errors"
	"fmt"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	Create(db *gorm.DB, actor auth.Session, req *dto.CreateReviewRequest) (*models.Review, error)
	ListForProperty(db *gorm.DB, propertyID string, page, pageSize int) (*dto.ReviewListResponse, error)
}

type ReviewServiceImpl struct {
	reviewRepo   repositories.ReviewRepository
	propertyRepo repositories.PropertyRepository
	bookingRepo  repositories.BookingRepository
	notifier     Notifier
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	propertyRepo repositories.PropertyRepository,
	bookingRepo repositories.BookingRepository,
	notifier Notifier,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:   reviewRepo,
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		notifier:     notifier,
	}
}

// Create - отзыв оставляет студент после завершенного просмотра, один на объект
func (s *ReviewServiceImpl) Create(db *gorm.DB, actor auth.Session, req *dto.CreateReviewRequest) (*models.Review, error) {
	if !actor.Can(auth.PermReviewsWrite) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	property, err := s.propertyRepo.FindByID(tx, req.PropertyID)
	if err != nil {
		return nil, mapError(err)
	}

	visited, err := s.bookingRepo.HasBooking(tx, actor.UserID(), property.ID, models.BookingStatusCompleted)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !visited {
		return nil, apperrors.ErrInvalidOperation(apperrors.DomainReview, "Only students with a completed viewing can leave a review")
	}

	review := &models.Review{
		PropertyID: property.ID,
		StudentID:  actor.UserID(),
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviewRepo.Create(tx, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrAlreadyExists(apperrors.DomainReview, "You have already reviewed this property")
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.notifier.Notify(tx, Notice{
		UserID:  property.AgentProfileID,
		Type:    models.NotificationNewReview,
		Title:   "New review",
		Message: fmt.Sprintf("Your listing %q received a %d-star review", property.Title, review.Rating),
		Path:    "/properties/" + property.ID,
		Data:    map[string]interface{}{"review_id": review.ID, "property_id": property.ID},
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Review created", "review_id", review.ID, "property_id", property.ID)
	return review, nil
}

func (s *ReviewServiceImpl) ListForProperty(db *gorm.DB, propertyID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	p := repositories.Pagination{Page: page, PageSize: pageSize}
	reviews, total, err := s.reviewRepo.ListForProperty(db, propertyID, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	avg, err := s.reviewRepo.AverageRating(db, propertyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if page <= 0 {
		page = 1
	}
	return &dto.ReviewListResponse{
		Reviews:       reviews,
		AverageRating: avg,
		Total:         total,
		Page:          page,
		PageSize:      p.Limit(),
	}, nil
}
