package workers

import (
	"context"
	"time"

	"rentease_backend/internal/logger"

	"gorm.io/gorm"
)

type ReadNotificationCleaner interface {
	CleanupRead(db *gorm.DB, olderThan time.Duration) (int64, error)
}

// NotificationCleanup удаляет прочитанные уведомления старше retention
type NotificationCleanup struct {
	db        *gorm.DB
	cleaner   ReadNotificationCleaner
	retention time.Duration
}

func NewNotificationCleanup(db *gorm.DB, cleaner ReadNotificationCleaner, retentionDays int) *NotificationCleanup {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &NotificationCleanup{
		db:        db,
		cleaner:   cleaner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

func (w *NotificationCleanup) Run(ctx context.Context) error {
	removed, err := w.cleaner.CleanupRead(w.db.WithContext(ctx), w.retention)
	if err != nil {
		return err
	}
	if removed > 0 {
		logger.WorkerLog("notification_cleanup", "delete_read", nil, "removed", removed)
	}
	return nil
}
