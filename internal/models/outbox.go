package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	OutboxEventNotificationCreated = "notification.created"
	OutboxEventEmailSend           = "email.send"
)

// OutboxEvent - побочный эффект, записанный в той же транзакции, что и основное
// изменение. Воркер доставляет его после коммита.
type OutboxEvent struct {
	BaseModel
	EventType   string         `gorm:"type:varchar(50);not null;index" json:"event_type"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	Status      OutboxStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Attempts    int            `gorm:"default:0" json:"attempts"`
	LastError   string         `json:"last_error,omitempty"`
	AvailableAt time.Time      `gorm:"not null;index" json:"available_at"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
}

// EmailPayload - полезная нагрузка события email.send
type EmailPayload struct {
	Template  string            `json:"template"`
	To        string            `json:"to"`
	Variables map[string]string `json:"variables"`
}
