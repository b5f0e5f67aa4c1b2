package repositories

import (
	"time"

	"rentease_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxRepository interface {
	Enqueue(db *gorm.DB, event *models.OutboxEvent) error
	ClaimBatch(db *gorm.DB, now time.Time, limit int) ([]models.OutboxEvent, error)
	MarkSent(db *gorm.DB, id string, at time.Time) error
	MarkFailed(db *gorm.DB, id string, attempts int, lastErr string, retryAt time.Time, final bool) error
}

type OutboxRepositoryImpl struct{}

func NewOutboxRepository() OutboxRepository {
	return &OutboxRepositoryImpl{}
}

func (r *OutboxRepositoryImpl) Enqueue(db *gorm.DB, event *models.OutboxEvent) error {
	if event.Status == "" {
		event.Status = models.OutboxStatusPending
	}
	if event.AvailableAt.IsZero() {
		event.AvailableAt = time.Now()
	}
	return db.Create(event).Error
}

// ClaimBatch выбирает готовые события с SKIP LOCKED, чтобы несколько
// экземпляров воркера не брали одно и то же
func (r *OutboxRepositoryImpl) ClaimBatch(db *gorm.DB, now time.Time, limit int) ([]models.OutboxEvent, error) {
	var events []models.OutboxEvent
	err := db.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND available_at <= ?", models.OutboxStatusPending, now).
		Order("created_at").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *OutboxRepositoryImpl) MarkSent(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.OutboxEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       models.OutboxStatusSent,
		"processed_at": at,
		"attempts":     gorm.Expr("attempts + 1"),
		"last_error":   "",
	}).Error
}

func (r *OutboxRepositoryImpl) MarkFailed(db *gorm.DB, id string, attempts int, lastErr string, retryAt time.Time, final bool) error {
	updates := map[string]interface{}{
		"attempts":     attempts,
		"last_error":   lastErr,
		"available_at": retryAt,
	}
	if final {
		updates["status"] = models.OutboxStatusFailed
		updates["processed_at"] = retryAt
	}
	return db.Model(&models.OutboxEvent{}).Where("id = ?", id).Updates(updates).Error
}
