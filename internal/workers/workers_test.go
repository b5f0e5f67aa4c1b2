package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rentease_backend/internal/email"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/ws"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

type failure struct {
	attempts int
	final    bool
	retryAt  time.Time
}

type fakeOutboxRepo struct {
	repositories.OutboxRepository
	pending []models.OutboxEvent
	sent    []string
	failed  map[string]failure
}

func (r *fakeOutboxRepo) ClaimBatch(db *gorm.DB, now time.Time, limit int) ([]models.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) MarkSent(db *gorm.DB, id string, at time.Time) error {
	r.sent = append(r.sent, id)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(db *gorm.DB, id string, attempts int, lastErr string, retryAt time.Time, final bool) error {
	if r.failed == nil {
		r.failed = map[string]failure{}
	}
	r.failed[id] = failure{attempts: attempts, final: final, retryAt: retryAt}
	return nil
}

type fakePublisher struct {
	messages []ws.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg ws.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendTemplate(name, to string, data email.TemplateData) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, name+":"+to)
	return nil
}

func outboxEvent(id, eventType string, payload interface{}, attempts int) models.OutboxEvent {
	raw, _ := json.Marshal(payload)
	return models.OutboxEvent{
		BaseModel: models.BaseModel{ID: id},
		EventType: eventType,
		Payload:   datatypes.JSON(raw),
		Status:    models.OutboxStatusPending,
		Attempts:  attempts,
	}
}

func TestOutboxRelay_DeliversBothKinds(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []models.OutboxEvent{
		outboxEvent("e-1", models.OutboxEventNotificationCreated, map[string]string{"id": "n-1", "user_id": "student-1"}, 0),
		outboxEvent("e-2", models.OutboxEventEmailSend, models.EmailPayload{Template: "welcome", To: "a@example.com"}, 0),
	}}
	pub := &fakePublisher{}
	mailer := &fakeMailer{}
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	relay := NewOutboxRelay(db, repo, pub, mailer, OutboxRelayConfig{})
	n, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"e-1", "e-2"}, repo.sent)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "student-1", pub.messages[0].UserID)
	assert.Equal(t, ws.MessageTypeNotification, pub.messages[0].Type)
	assert.Equal(t, []string{"welcome:a@example.com"}, mailer.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRelay_FailureBacksOffThenGivesUp(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeOutboxRepo{pending: []models.OutboxEvent{
		outboxEvent("e-1", models.OutboxEventEmailSend, models.EmailPayload{Template: "welcome", To: "a@example.com"}, 0),
		outboxEvent("e-2", models.OutboxEventEmailSend, models.EmailPayload{Template: "welcome", To: "b@example.com"}, 2),
	}}
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	relay := NewOutboxRelay(db, repo, &fakePublisher{}, &fakeMailer{err: errors.New("smtp down")}, OutboxRelayConfig{
		MaxAttempts: 3,
		BaseBackoff: time.Minute,
	})
	relay.now = func() time.Time { return now }

	_, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Empty(t, repo.sent)
	assert.Equal(t, failure{attempts: 1, final: false, retryAt: now.Add(time.Minute)}, repo.failed["e-1"])
	assert.Equal(t, failure{attempts: 3, final: true, retryAt: now.Add(4 * time.Minute)}, repo.failed["e-2"])
}

func TestOutboxRelay_UnknownTypeIsFailed(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []models.OutboxEvent{
		outboxEvent("e-1", "something.else", map[string]string{}, 0),
	}}
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	relay := NewOutboxRelay(db, repo, &fakePublisher{}, &fakeMailer{}, OutboxRelayConfig{MaxAttempts: 1})
	_, err := relay.RunOnce(context.Background())

	require.NoError(t, err)
	assert.True(t, repo.failed["e-1"].final)
}

func TestOutboxRelay_EmptyBatch(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	n, err := NewOutboxRelay(db, &fakeOutboxRepo{}, &fakePublisher{}, &fakeMailer{}, OutboxRelayConfig{}).RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRelay_BackoffIsCapped(t *testing.T) {
	relay := &OutboxRelay{cfg: OutboxRelayConfig{BaseBackoff: 10 * time.Second}}
	assert.Equal(t, 10*time.Second, relay.backoff(1))
	assert.Equal(t, 40*time.Second, relay.backoff(3))
	assert.Equal(t, time.Hour, relay.backoff(20))
}

type fakeLifter struct {
	calls int
	limit int
}

func (l *fakeLifter) LiftExpired(db *gorm.DB, limit int) (int, error) {
	l.calls++
	l.limit = limit
	return 2, nil
}

type fakeCleaner struct {
	olderThan time.Duration
}

func (c *fakeCleaner) CleanupRead(db *gorm.DB, olderThan time.Duration) (int64, error) {
	c.olderThan = olderThan
	return 5, nil
}

func TestSweepAndCleanup(t *testing.T) {
	db, _ := newMockDB(t)

	lifter := &fakeLifter{}
	require.NoError(t, NewSuspensionSweep(db, lifter, 0).Run(context.Background()))
	assert.Equal(t, 1, lifter.calls)
	assert.Equal(t, 100, lifter.limit)

	cleaner := &fakeCleaner{}
	require.NoError(t, NewNotificationCleanup(db, cleaner, 30).Run(context.Background()))
	assert.Equal(t, 30*24*time.Hour, cleaner.olderThan)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler()
	assert.Error(t, s.Register("broken", "not a spec", func(ctx context.Context) error { return nil }))
	assert.NoError(t, s.Register("outbox", "@every 5s", func(ctx context.Context) error { return nil }))
}
