package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SharedRentalService interface {
	Create(db *gorm.DB, actor auth.Session, req *dto.CreateSharedRentalRequest) (*models.SharedRental, error)
	Archive(db *gorm.DB, actor auth.Session, id string) error
	ExpressInterest(db *gorm.DB, actor auth.Session, id string, req *dto.ExpressInterestRequest) (*models.SharedRentalInterest, error)
	ListInterests(db *gorm.DB, actor auth.Session, id string) ([]models.SharedRentalInterest, error)
	ListActive(db *gorm.DB, page, pageSize int) (*dto.PaginatedResponse, error)
}

type SharedRentalServiceImpl struct {
	rentalRepo   repositories.SharedRentalRepository
	propertyRepo repositories.PropertyRepository
	notifier     Notifier
}

func NewSharedRentalService(
	rentalRepo repositories.SharedRentalRepository,
	propertyRepo repositories.PropertyRepository,
	notifier Notifier,
) SharedRentalService {
	return &SharedRentalServiceImpl{
		rentalRepo:   rentalRepo,
		propertyRepo: propertyRepo,
		notifier:     notifier,
	}
}

func (s *SharedRentalServiceImpl) Create(db *gorm.DB, actor auth.Session, req *dto.CreateSharedRentalRequest) (*models.SharedRental, error) {
	if !actor.Can(auth.PermSharedRentalsWrite) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	availableFrom, err := time.Parse("2006-01-02", req.AvailableFrom)
	if err != nil {
		return nil, apperrors.FieldError("available_from", "Date must be in YYYY-MM-DD format")
	}

	property, err := s.propertyRepo.FindByID(db, req.PropertyID)
	if err != nil {
		return nil, mapError(err)
	}
	if property.Status != models.PropertyStatusApproved {
		return nil, apperrors.ErrPropertyNotApproved
	}

	rental := &models.SharedRental{
		OwnerID:       actor.UserID(),
		PropertyID:    property.ID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		MonthlyShare:  req.MonthlyShare,
		AvailableFrom: availableFrom,
		Status:        models.SharedRentalStatusActive,
	}
	if err := s.rentalRepo.Create(db, rental); err != nil {
		return nil, apperrors.InternalError(err)
	}
	rental.Property = property

	logger.Info("Shared rental created", "shared_rental_id", rental.ID, "owner_id", actor.UserID())
	return rental, nil
}

func (s *SharedRentalServiceImpl) Archive(db *gorm.DB, actor auth.Session, id string) error {
	rental, err := s.rentalRepo.FindByID(db, id)
	if err != nil {
		return mapError(err)
	}
	if rental.OwnerID != actor.UserID() {
		return apperrors.ErrInsufficientPermissions
	}
	if rental.Status != models.SharedRentalStatusActive {
		return apperrors.ErrInvalidTransition(apperrors.DomainSharedRental, string(rental.Status), "archive")
	}
	if err := s.rentalRepo.UpdateStatus(db, id, models.SharedRentalStatusArchived); err != nil {
		return mapError(err)
	}
	return nil
}

// ExpressInterest - нельзя откликнуться на свое или архивное объявление;
// повторный отклик того же студента отклоняется
func (s *SharedRentalServiceImpl) ExpressInterest(db *gorm.DB, actor auth.Session, id string, req *dto.ExpressInterestRequest) (*models.SharedRentalInterest, error) {
	if !actor.Can(auth.PermSharedRentalsWrite) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	rental, err := s.rentalRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if rental.OwnerID == actor.UserID() {
		return nil, apperrors.ErrInvalidOperation(apperrors.DomainSharedRental, "Cannot express interest in your own listing")
	}
	if rental.Status != models.SharedRentalStatusActive {
		return nil, apperrors.ErrInvalidOperation(apperrors.DomainSharedRental, "Listing is archived")
	}

	interest := &models.SharedRentalInterest{
		SharedRentalID: rental.ID,
		StudentID:      actor.UserID(),
		Message:        req.Message,
	}
	if err := s.rentalRepo.CreateInterest(tx, interest); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrAlreadyExists(apperrors.DomainSharedRental, "Interest already expressed")
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.notifier.Notify(tx, Notice{
		UserID:  rental.OwnerID,
		Type:    models.NotificationSharedRentalInterest,
		Title:   "Someone is interested",
		Message: fmt.Sprintf("A student is interested in sharing %q", rental.Title),
		Path:    "/shared-rentals/" + rental.ID,
		Data:    map[string]interface{}{"shared_rental_id": rental.ID, "interest_id": interest.ID},
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return interest, nil
}

func (s *SharedRentalServiceImpl) ListInterests(db *gorm.DB, actor auth.Session, id string) ([]models.SharedRentalInterest, error) {
	rental, err := s.rentalRepo.FindByID(db, id)
	if err != nil {
		return nil, mapError(err)
	}
	if rental.OwnerID != actor.UserID() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	interests, err := s.rentalRepo.ListInterests(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return interests, nil
}

func (s *SharedRentalServiceImpl) ListActive(db *gorm.DB, page, pageSize int) (*dto.PaginatedResponse, error) {
	p := repositories.Pagination{Page: page, PageSize: pageSize}
	list, total, err := s.rentalRepo.ListActive(db, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(list, total, page, p.Limit()), nil
}
