package services

import (
	"errors"
	"fmt"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/internal/workflow"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type BookingService interface {
	Create(db *gorm.DB, actor auth.Session, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	Get(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error)
	ListMine(db *gorm.DB, actor auth.Session, req *dto.BookingListRequest) (*dto.PaginatedResponse, error)

	Confirm(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error)
	Decline(db *gorm.DB, actor auth.Session, id string, req *dto.DeclineBookingRequest) (*dto.BookingResponse, error)
	Reschedule(db *gorm.DB, actor auth.Session, id string, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error)
	Complete(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error)
	Cancel(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error)
	Delete(db *gorm.DB, actor auth.Session, id string) error
}

type BookingServiceImpl struct {
	bookingRepo      repositories.BookingRepository
	propertyRepo     repositories.PropertyRepository
	verificationRepo repositories.VerificationRepository
	notifier         Notifier
	now              func() time.Time
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	propertyRepo repositories.PropertyRepository,
	verificationRepo repositories.VerificationRepository,
	notifier Notifier,
) BookingService {
	return &BookingServiceImpl{
		bookingRepo:      bookingRepo,
		propertyRepo:     propertyRepo,
		verificationRepo: verificationRepo,
		notifier:         notifier,
		now:              time.Now,
	}
}

// Create - студент записывается на просмотр одобренного объекта.
// Агент берется из объявления; слот (объект + дата + время) должен быть свободен.
func (s *BookingServiceImpl) Create(db *gorm.DB, actor auth.Session, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if !actor.IsStudent() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	property, err := s.propertyRepo.FindByIDForUpdate(tx, req.PropertyID)
	if err != nil {
		return nil, mapError(err)
	}
	if property.Status != models.PropertyStatusApproved {
		return nil, apperrors.ErrPropertyNotApproved
	}
	if req.AgentID != "" && req.AgentID != property.AgentProfileID {
		return nil, apperrors.FieldError("agent_id", "Agent does not match the property")
	}

	taken, err := s.bookingRepo.SlotTaken(tx, property.ID, req.BookingDate, req.BookingTime, "")
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if taken {
		return nil, apperrors.ErrBookingSlotTaken
	}

	booking := &models.Booking{
		PropertyID:  property.ID,
		UserID:      actor.UserID(),
		AgentID:     property.AgentProfileID,
		BookingDate: req.BookingDate,
		BookingTime: req.BookingTime,
		Notes:       req.Notes,
		Status:      models.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(tx, booking); err != nil {
		return nil, apperrors.InternalError(err)
	}
	booking.Property = property

	if _, err := s.notifier.Notify(tx, Notice{
		UserID:  booking.AgentID,
		Type:    models.NotificationBookingCreated,
		Title:   "New viewing request",
		Message: fmt.Sprintf("A student requested a viewing of %q on %s at %s", property.Title, booking.BookingDate, booking.BookingTime),
		Path:    "/bookings/" + booking.ID,
		Data:    map[string]interface{}{"booking_id": booking.ID, "property_id": property.ID},
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Booking created", "booking_id", booking.ID, "property_id", property.ID, "student_id", actor.UserID())
	return dto.NewBookingResponse(booking), nil
}

func (s *BookingServiceImpl) Get(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error) {
	booking, err := s.bookingRepo.FindByID(db, id)
	if err != nil {
		return nil, mapError(err)
	}
	if !actor.IsAdmin() && booking.UserID != actor.UserID() && booking.AgentID != actor.UserID() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return dto.NewBookingResponse(booking), nil
}

// ListMine - студент видит свои брони, агент - назначенные ему
func (s *BookingServiceImpl) ListMine(db *gorm.DB, actor auth.Session, req *dto.BookingListRequest) (*dto.PaginatedResponse, error) {
	criteria := repositories.BookingCriteria{
		Status:     req.Status,
		Pagination: repositories.Pagination{Page: req.Page, PageSize: req.PageSize},
	}
	switch {
	case actor.IsStudent():
		criteria.UserID = actor.UserID()
	case actor.IsAgent():
		criteria.AgentID = actor.UserID()
	case actor.IsAdmin():
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}

	bookings, total, err := s.bookingRepo.List(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]*dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, dto.NewBookingResponse(&bookings[i]))
	}
	return dto.NewPaginatedResponse(items, total, req.Page, criteria.Limit()), nil
}

func (s *BookingServiceImpl) Confirm(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error) {
	return s.transition(db, actor, id, workflow.BookingConfirm, nil, func(b *models.Booking) Notice {
		return Notice{
			UserID:  b.UserID,
			Type:    models.NotificationBookingConfirmed,
			Title:   "Viewing confirmed",
			Message: fmt.Sprintf("Your viewing on %s at %s was confirmed", b.BookingDate, b.BookingTime),
		}
	})
}

func (s *BookingServiceImpl) Decline(db *gorm.DB, actor auth.Session, id string, req *dto.DeclineBookingRequest) (*dto.BookingResponse, error) {
	return s.transition(db, actor, id, workflow.BookingDecline, nil, func(b *models.Booking) Notice {
		msg := fmt.Sprintf("Your viewing on %s at %s was declined", b.BookingDate, b.BookingTime)
		if req != nil && req.Reason != "" {
			msg += ": " + req.Reason
		}
		return Notice{
			UserID:  b.UserID,
			Type:    models.NotificationBookingDeclined,
			Title:   "Viewing declined",
			Message: msg,
		}
	})
}

// Reschedule меняет дату и время; статус остается прежним
func (s *BookingServiceImpl) Reschedule(db *gorm.DB, actor auth.Session, id string, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error) {
	apply := func(tx *gorm.DB, b *models.Booking) error {
		// Блокировка объявления сериализует проверку слота с Create
		if _, err := s.propertyRepo.FindByIDForUpdate(tx, b.PropertyID); err != nil {
			return mapError(err)
		}
		taken, err := s.bookingRepo.SlotTaken(tx, b.PropertyID, req.BookingDate, req.BookingTime, b.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		if taken {
			return apperrors.ErrBookingSlotTaken
		}
		if err := s.bookingRepo.Reschedule(tx, b.ID, req.BookingDate, req.BookingTime); err != nil {
			return mapError(err)
		}
		b.BookingDate = req.BookingDate
		b.BookingTime = req.BookingTime
		return nil
	}
	return s.transition(db, actor, id, workflow.BookingReschedule, apply, func(b *models.Booking) Notice {
		return Notice{
			UserID:  b.UserID,
			Type:    models.NotificationBookingRescheduled,
			Title:   "Viewing rescheduled",
			Message: fmt.Sprintf("Your viewing was moved to %s at %s", b.BookingDate, b.BookingTime),
		}
	})
}

func (s *BookingServiceImpl) Complete(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error) {
	return s.transition(db, actor, id, workflow.BookingComplete, nil, func(b *models.Booking) Notice {
		return Notice{
			UserID:  b.UserID,
			Type:    models.NotificationBookingCompleted,
			Title:   "Viewing completed",
			Message: "Your viewing was marked as completed. You can now leave a review.",
		}
	})
}

func (s *BookingServiceImpl) Cancel(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error) {
	return s.transition(db, actor, id, workflow.BookingCancel, nil, func(b *models.Booking) Notice {
		return Notice{
			UserID:  b.AgentID,
			Type:    models.NotificationBookingCancelled,
			Title:   "Viewing cancelled",
			Message: fmt.Sprintf("The student cancelled the viewing on %s at %s", b.BookingDate, b.BookingTime),
		}
	})
}

// Delete - удалить можно только завершенную или отмененную бронь
func (s *BookingServiceImpl) Delete(db *gorm.DB, actor auth.Session, id string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	booking, err := s.bookingRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return mapError(err)
	}
	if !actor.IsAdmin() && booking.AgentID != actor.UserID() {
		return apperrors.ErrInsufficientPermissions
	}
	if !workflow.CanDeleteBooking(booking.Status) {
		return apperrors.ErrBookingNotTerminal
	}

	if err := s.bookingRepo.Delete(tx, booking.ID); err != nil {
		return mapError(err)
	}
	if _, err := s.notifier.Notify(tx, Notice{
		UserID:  booking.UserID,
		Type:    models.NotificationBookingDeleted,
		Title:   "Booking removed",
		Message: fmt.Sprintf("Your %s booking for %s at %s was removed", booking.Status, booking.BookingDate, booking.BookingTime),
		Path:    "/bookings",
		Data:    map[string]interface{}{"booking_id": booking.ID},
	}); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	logger.Info("Booking deleted", "booking_id", booking.ID, "actor_id", actor.UserID())
	return nil
}

// transition - общий путь для всех действий над бронью: блокировка строки,
// проверка участника и таблицы переходов, запись статуса и уведомление
// в одной транзакции.
func (s *BookingServiceImpl) transition(
	db *gorm.DB,
	actor auth.Session,
	id string,
	action workflow.BookingAction,
	apply func(tx *gorm.DB, b *models.Booking) error,
	notice func(b *models.Booking) Notice,
) (*dto.BookingResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	booking, err := s.bookingRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, mapError(err)
	}

	if err := s.authorize(tx, actor, booking, action); err != nil {
		return nil, err
	}

	from := booking.Status
	next, err := workflow.NextBookingStatus(from, action)
	if err != nil {
		return nil, mapError(err)
	}

	if apply != nil {
		if err := apply(tx, booking); err != nil {
			return nil, err
		}
	}
	if next != from {
		if err := s.bookingRepo.UpdateStatus(tx, booking.ID, next); err != nil {
			return nil, mapError(err)
		}
		booking.Status = next
	}

	n := notice(booking)
	n.Path = "/bookings/" + booking.ID
	n.Data = map[string]interface{}{"booking_id": booking.ID, "status": booking.Status}
	if _, err := s.notifier.Notify(tx, n); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordTransition("booking", string(action))
	logger.TransitionLog("booking", booking.ID, string(action), string(from), string(booking.Status), actor.UserID())
	return dto.NewBookingResponse(booking), nil
}

// authorize - агентские действия выполняет агент брони, причем не
// приостановленный; отмену - студент брони
func (s *BookingServiceImpl) authorize(tx *gorm.DB, actor auth.Session, b *models.Booking, action workflow.BookingAction) error {
	who, ok := workflow.BookingActorFor(action)
	if !ok {
		return apperrors.ErrInsufficientPermissions
	}

	switch who {
	case workflow.ActorBookingStudent:
		if b.UserID != actor.UserID() {
			return apperrors.ErrInsufficientPermissions
		}
	case workflow.ActorBookingAgent:
		if b.AgentID != actor.UserID() {
			return apperrors.ErrInsufficientPermissions
		}
		v, err := s.verificationRepo.FindByProfileID(tx, actor.UserID())
		if err != nil && !errors.Is(err, repositories.ErrVerificationNotFound) {
			return apperrors.InternalError(err)
		}
		if err == nil && workflow.SuspensionActive(v, s.now()) {
			return apperrors.ErrAgentSuspended
		}
	}
	return nil
}
