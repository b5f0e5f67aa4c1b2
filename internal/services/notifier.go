package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notice - уведомление, которое пишется в той же транзакции, что и основное изменение
type Notice struct {
	UserID  string
	Type    string
	Title   string
	Message string
	Path    string // путь во фронтенде, например /bookings/<id>
	Data    map[string]interface{}
}

// EmailNotice - письмо, которое отправит outbox-воркер после коммита
type EmailNotice struct {
	Template  string
	To        string
	Variables map[string]string
}

// Notifier создает строку уведомления и события outbox.
// Все методы принимают открытую транзакцию и ничего не отправляют сами.
type Notifier interface {
	Notify(tx *gorm.DB, n Notice) (*models.Notification, error)
	QueueEmail(tx *gorm.DB, e EmailNotice) error
	Link(path string) string
}

type outboxNotifier struct {
	notificationRepo repositories.NotificationRepository
	outboxRepo       repositories.OutboxRepository
	baseURL          string
	now              func() time.Time
}

func NewNotifier(
	notificationRepo repositories.NotificationRepository,
	outboxRepo repositories.OutboxRepository,
	baseURL string,
) Notifier {
	return &outboxNotifier{
		notificationRepo: notificationRepo,
		outboxRepo:       outboxRepo,
		baseURL:          strings.TrimRight(baseURL, "/"),
		now:              time.Now,
	}
}

func (n *outboxNotifier) Link(path string) string {
	if path == "" {
		return n.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return n.baseURL + path
}

func (n *outboxNotifier) Notify(tx *gorm.DB, notice Notice) (*models.Notification, error) {
	var data datatypes.JSON
	if notice.Data != nil {
		raw, err := json.Marshal(notice.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
		data = datatypes.JSON(raw)
	}

	notification := &models.Notification{
		UserID:  notice.UserID,
		Type:    notice.Type,
		Title:   notice.Title,
		Message: notice.Message,
		Data:    data,
	}
	if notice.Path != "" {
		link := n.Link(notice.Path)
		notification.Link = &link
	}

	if err := n.notificationRepo.Create(tx, notification); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.NewNotificationResponse(notification))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outbox payload: %w", err)
	}
	event := &models.OutboxEvent{
		EventType:   models.OutboxEventNotificationCreated,
		Payload:     datatypes.JSON(payload),
		AvailableAt: n.now(),
	}
	if err := n.outboxRepo.Enqueue(tx, event); err != nil {
		return nil, err
	}
	return notification, nil
}

func (n *outboxNotifier) QueueEmail(tx *gorm.DB, e EmailNotice) error {
	if e.To == "" {
		return nil
	}
	payload, err := json.Marshal(models.EmailPayload{
		Template:  e.Template,
		To:        e.To,
		Variables: e.Variables,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}
	return n.outboxRepo.Enqueue(tx, &models.OutboxEvent{
		EventType:   models.OutboxEventEmailSend,
		Payload:     datatypes.JSON(payload),
		AvailableAt: n.now(),
	})
}
