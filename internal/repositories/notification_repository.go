package repositories

import (
	"time"

	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	FindByID(db *gorm.DB, id string) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, userID, id string, at time.Time) error
	MarkAllAsRead(db *gorm.DB, userID string, at time.Time) (int64, error)
	Delete(db *gorm.DB, userID, id string) error
	DeleteReadOlderThan(db *gorm.DB, before time.Time) (int64, error)
}

type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Pagination
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, n *models.Notification) error {
	return db.Create(n).Error
}

func (r *NotificationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Notification, error) {
	var n models.Notification
	if err := db.First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrNotificationNotFound)
	}
	return &n, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID string, c NotificationCriteria) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if c.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if c.Type != "" {
		query = query.Where("type = ?", c.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Notification
	err := query.Order("created_at DESC").Scopes(paginate(c.Pagination)).Find(&list).Error
	return list, total, err
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead - только свои уведомления; чужое выглядит как не найденное
func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, userID, id string, at time.Time) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string, at time.Time) (int64, error) {
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) Delete(db *gorm.DB, userID, id string) error {
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteReadOlderThan(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Where("is_read = ? AND created_at < ?", true, before).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
