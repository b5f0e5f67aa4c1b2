package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rentease_backend/internal/email"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/ws"

	"gorm.io/gorm"
)

// Publisher - куда уходят realtime-уведомления (ws.Broker)
type Publisher interface {
	Publish(ctx context.Context, msg ws.Message) error
}

// TemplateSender - отправка письма по шаблону (email.Mailer)
type TemplateSender interface {
	SendTemplate(templateName, to string, data email.TemplateData) error
}

type OutboxRelayConfig struct {
	BatchSize   int
	MaxAttempts int
	BaseBackoff time.Duration
}

// OutboxRelay доставляет события outbox после коммита основной транзакции:
// notification.created - в брокер, email.send - в почтовый провайдер
type OutboxRelay struct {
	db        *gorm.DB
	repo      repositories.OutboxRepository
	publisher Publisher
	mailer    TemplateSender
	cfg       OutboxRelayConfig
	now       func() time.Time
}

func NewOutboxRelay(db *gorm.DB, repo repositories.OutboxRepository, publisher Publisher, mailer TemplateSender, cfg OutboxRelayConfig) *OutboxRelay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 10 * time.Second
	}
	return &OutboxRelay{
		db:        db,
		repo:      repo,
		publisher: publisher,
		mailer:    mailer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run - один проход: забирает пачку готовых событий и отмечает результат
func (r *OutboxRelay) Run(ctx context.Context) error {
	_, err := r.RunOnce(ctx)
	return err
}

func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}
	defer tx.Rollback()

	events, err := r.repo.ClaimBatch(tx, r.now(), r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim outbox batch: %w", err)
	}
	if len(events) == 0 {
		return 0, nil
	}

	for i := range events {
		event := &events[i]
		if err := r.dispatch(ctx, event); err != nil {
			if markErr := r.fail(tx, event, err); markErr != nil {
				return 0, markErr
			}
			continue
		}
		if err := r.repo.MarkSent(tx, event.ID, r.now()); err != nil {
			return 0, fmt.Errorf("mark outbox event sent: %w", err)
		}
		metrics.RecordOutboxEvent(event.EventType, "sent")
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	logger.WorkerLog("outbox_relay", "dispatch", nil, "events", len(events))
	return len(events), nil
}

func (r *OutboxRelay) dispatch(ctx context.Context, event *models.OutboxEvent) error {
	switch event.EventType {
	case models.OutboxEventNotificationCreated:
		var n struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(event.Payload, &n); err != nil {
			return fmt.Errorf("decode notification payload: %w", err)
		}
		return r.publisher.Publish(ctx, ws.Message{
			Type:   ws.MessageTypeNotification,
			UserID: n.UserID,
			Data:   json.RawMessage(event.Payload),
		})

	case models.OutboxEventEmailSend:
		var p models.EmailPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return fmt.Errorf("decode email payload: %w", err)
		}
		return r.mailer.SendTemplate(p.Template, p.To, email.TemplateData(p.Variables))
	}
	return fmt.Errorf("unknown outbox event type %q", event.EventType)
}

// fail откладывает событие с экспоненциальной задержкой; после MaxAttempts
// событие помечается failed и больше не выбирается
func (r *OutboxRelay) fail(tx *gorm.DB, event *models.OutboxEvent, cause error) error {
	attempts := event.Attempts + 1
	final := attempts >= r.cfg.MaxAttempts
	retryAt := r.now().Add(r.backoff(attempts))

	if err := r.repo.MarkFailed(tx, event.ID, attempts, cause.Error(), retryAt, final); err != nil {
		return fmt.Errorf("mark outbox event failed: %w", err)
	}

	result := "retry"
	if final {
		result = "failed"
	}
	metrics.RecordOutboxEvent(event.EventType, result)
	logger.Warn("Outbox event delivery failed",
		"event_id", event.ID,
		"event_type", event.EventType,
		"attempts", attempts,
		"final", final,
		"error", cause.Error(),
	)
	return nil
}

func (r *OutboxRelay) backoff(attempts int) time.Duration {
	d := r.cfg.BaseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d > time.Hour {
			return time.Hour
		}
	}
	return d
}
