package services

import (
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// NotificationService - операции получателя над своими уведомлениями.
// Создание идет через Notifier внутри транзакций других сервисов.
type NotificationService interface {
	List(db *gorm.DB, actor auth.Session, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error)
	UnreadCount(db *gorm.DB, actor auth.Session) (int64, error)
	MarkRead(db *gorm.DB, actor auth.Session, id string) error
	MarkAllRead(db *gorm.DB, actor auth.Session) (int64, error)
	Delete(db *gorm.DB, actor auth.Session, id string) error

	// Worker
	CleanupRead(db *gorm.DB, olderThan time.Duration) (int64, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	now              func() time.Time
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

func (s *NotificationServiceImpl) List(db *gorm.DB, actor auth.Session, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error) {
	criteria := repositories.NotificationCriteria{
		UnreadOnly: req.UnreadOnly,
		Type:       req.Type,
		Pagination: repositories.Pagination{Page: req.Page, PageSize: req.PageSize},
	}
	list, total, err := s.notificationRepo.FindUserNotifications(db, actor.UserID(), criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.GetUnreadCount(db, actor.UserID())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.NotificationResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.NewNotificationResponse(&list[i]))
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Total:         total,
		Page:          page,
		PageSize:      criteria.Limit(),
	}, nil
}

func (s *NotificationServiceImpl) UnreadCount(db *gorm.DB, actor auth.Session) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(db, actor.UserID())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// MarkRead - чужое уведомление выглядит как несуществующее
func (s *NotificationServiceImpl) MarkRead(db *gorm.DB, actor auth.Session, id string) error {
	return mapError(s.notificationRepo.MarkAsRead(db, actor.UserID(), id, s.now()))
}

func (s *NotificationServiceImpl) MarkAllRead(db *gorm.DB, actor auth.Session) (int64, error) {
	n, err := s.notificationRepo.MarkAllAsRead(db, actor.UserID(), s.now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

func (s *NotificationServiceImpl) Delete(db *gorm.DB, actor auth.Session, id string) error {
	return mapError(s.notificationRepo.Delete(db, actor.UserID(), id))
}

func (s *NotificationServiceImpl) CleanupRead(db *gorm.DB, olderThan time.Duration) (int64, error) {
	return s.notificationRepo.DeleteReadOlderThan(db, s.now().Add(-olderThan))
}
