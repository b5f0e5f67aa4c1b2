package services

import (
	"encoding/json"
	"testing"
	"time"

	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotificationRepo struct {
	repositories.NotificationRepository
	created []*models.Notification
}

func (r *recordingNotificationRepo) Create(db *gorm.DB, n *models.Notification) error {
	n.ID = "n-1"
	r.created = append(r.created, n)
	return nil
}

type recordingOutboxRepo struct {
	repositories.OutboxRepository
	events []*models.OutboxEvent
}

func (r *recordingOutboxRepo) Enqueue(db *gorm.DB, e *models.OutboxEvent) error {
	r.events = append(r.events, e)
	return nil
}

func TestNotifier_WritesRowAndOutboxEvent(t *testing.T) {
	notifications := &recordingNotificationRepo{}
	outbox := &recordingOutboxRepo{}
	n := NewNotifier(notifications, outbox, "https://rentease.example/").(*outboxNotifier)
	n.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	created, err := n.Notify(nil, Notice{
		UserID:  "student-1",
		Type:    models.NotificationBookingConfirmed,
		Title:   "Viewing confirmed",
		Message: "See you there",
		Path:    "bookings/b-1",
		Data:    map[string]interface{}{"booking_id": "b-1"},
	})

	require.NoError(t, err)
	require.NotNil(t, created.Link)
	assert.Equal(t, "https://rentease.example/bookings/b-1", *created.Link)
	require.Len(t, notifications.created, 1)
	require.Len(t, outbox.events, 1)

	event := outbox.events[0]
	assert.Equal(t, models.OutboxEventNotificationCreated, event.EventType)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "student-1", payload["user_id"])
	assert.Equal(t, "n-1", payload["id"])
	assert.Equal(t, "b-1", payload["data"].(map[string]interface{})["booking_id"])
}

func TestNotifier_QueueEmail(t *testing.T) {
	outbox := &recordingOutboxRepo{}
	n := NewNotifier(&recordingNotificationRepo{}, outbox, "http://localhost:4000")

	require.NoError(t, n.QueueEmail(nil, EmailNotice{Template: "welcome"}))
	assert.Empty(t, outbox.events, "no recipient, nothing queued")

	require.NoError(t, n.QueueEmail(nil, EmailNotice{
		Template:  "welcome",
		To:        "a@example.com",
		Variables: map[string]string{"name": "A"},
	}))
	require.Len(t, outbox.events, 1)
	assert.Equal(t, models.OutboxEventEmailSend, outbox.events[0].EventType)

	var payload models.EmailPayload
	require.NoError(t, json.Unmarshal(outbox.events[0].Payload, &payload))
	assert.Equal(t, "a@example.com", payload.To)
	assert.Equal(t, "A", payload.Variables["name"])
}
