package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/models"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"
	"rentease_backend/internal/validator"
	"rentease_backend/pkg/apperrors"
	"rentease_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	propertyID = "6f1c2f5e-8d3a-4a8e-9a51-0d7a3c5e2b10"
	apiKey     = "test-api-key"
)

var tokens = auth.NewTokenManager("handler-secret", time.Hour)

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, id string, role models.UserRole) string {
	t.Helper()
	profile := &models.Profile{Email: id + "@example.com", Role: role}
	profile.ID = id
	token, _, err := tokens.Issue(profile)
	require.NoError(t, err)
	return "Bearer " + token
}

// newTestRouter подставляет nil *gorm.DB: фейковые сервисы базу не трогают
func newTestRouter(sc *services.ServiceContainer) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), (*gorm.DB)(nil))
		c.Next()
	})
	NewAppHandlers(sc, validator.New(), tokens, apiKey).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func call(r http.Handler, method, path, authHeader string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

type fakeBookingService struct {
	services.BookingService
	actor    auth.Session
	created  *dto.CreateBookingRequest
	declined *dto.DeclineBookingRequest
	err      error
}

func (s *fakeBookingService) Create(db *gorm.DB, actor auth.Session, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	s.actor = actor
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.BookingResponse{ID: "booking-1", Status: models.BookingStatusPending}, nil
}

func (s *fakeBookingService) Decline(db *gorm.DB, actor auth.Session, id string, req *dto.DeclineBookingRequest) (*dto.BookingResponse, error) {
	s.actor = actor
	s.declined = req
	return &dto.BookingResponse{ID: id, Status: models.BookingStatusCancelled}, nil
}

func (s *fakeBookingService) Confirm(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error) {
	s.actor = actor
	return &dto.BookingResponse{ID: id, Status: models.BookingStatusConfirmed}, nil
}

func validBooking() map[string]string {
	return map[string]string{
		"property_id":  propertyID,
		"booking_date": "2024-05-01",
		"booking_time": "10:30",
	}
}

func TestBookingCreate(t *testing.T) {
	svc := &fakeBookingService{}
	r := newTestRouter(&services.ServiceContainer{BookingService: svc})

	w := call(r, http.MethodPost, "/api/v1/bookings", "", validBooking())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/v1/bookings", bearer(t, "agent-1", models.UserRoleAgent), validBooking())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, svc.created)

	w = call(r, http.MethodPost, "/api/v1/bookings", bearer(t, "student-1", models.UserRoleStudent), validBooking())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "student-1", svc.actor.UserID())
	assert.Equal(t, "10:30", svc.created.BookingTime)
}

func TestBookingCreate_ValidationFailsBeforeService(t *testing.T) {
	svc := &fakeBookingService{}
	r := newTestRouter(&services.ServiceContainer{BookingService: svc})

	body := validBooking()
	body["booking_date"] = "01/05/2024"
	w := call(r, http.MethodPost, "/api/v1/bookings", bearer(t, "student-1", models.UserRoleStudent), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))
	assert.Nil(t, svc.created)
}

func TestBookingCreate_SlotTakenIsConflict(t *testing.T) {
	svc := &fakeBookingService{err: apperrors.ErrBookingSlotTaken}
	r := newTestRouter(&services.ServiceContainer{BookingService: svc})

	w := call(r, http.MethodPost, "/api/v1/bookings", bearer(t, "student-1", models.UserRoleStudent), validBooking())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, w))
}

func TestBookingDecline_BodyIsOptional(t *testing.T) {
	svc := &fakeBookingService{}
	r := newTestRouter(&services.ServiceContainer{BookingService: svc})
	agent := bearer(t, "agent-1", models.UserRoleAgent)

	w := call(r, http.MethodPut, "/api/v1/bookings/b-1/decline", agent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.declined.Reason)

	w = call(r, http.MethodPut, "/api/v1/bookings/b-1/decline", agent, map[string]string{"reason": "fully booked"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fully booked", svc.declined.Reason)
}

func TestBookingConfirm(t *testing.T) {
	svc := &fakeBookingService{}
	r := newTestRouter(&services.ServiceContainer{BookingService: svc})

	w := call(r, http.MethodPut, "/api/v1/bookings/b-7/confirm", bearer(t, "agent-1", models.UserRoleAgent), nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)
	assert.Equal(t, "agent-1", svc.actor.UserID())
}

type fakeVerificationService struct {
	services.VerificationService
	suspended *dto.SuspendAgentRequest
}

func (s *fakeVerificationService) Suspend(db *gorm.DB, actor auth.Session, id string, req *dto.SuspendAgentRequest) (*dto.VerificationResponse, error) {
	s.suspended = req
	return &dto.VerificationResponse{ID: id, IsSuspended: true}, nil
}

func TestVerificationSuspend(t *testing.T) {
	svc := &fakeVerificationService{}
	r := newTestRouter(&services.ServiceContainer{VerificationService: svc})
	admin := bearer(t, "admin-1", models.UserRoleAdmin)

	w := call(r, http.MethodPut, "/api/v1/admin/verifications/v-1/suspend", admin, map[string]string{"duration": "7_days", "reason": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.suspended)

	w = call(r, http.MethodPut, "/api/v1/admin/verifications/v-1/suspend", bearer(t, "agent-1", models.UserRoleAgent), map[string]string{"duration": "7_days", "reason": "fraud"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPut, "/api/v1/admin/verifications/v-1/suspend", admin, map[string]string{"duration": "7_days", "reason": "fraud"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fraud", svc.suspended.Reason)
}

type fakePropertyService struct {
	services.PropertyService
	actor  auth.Session
	called bool
}

func (s *fakePropertyService) Get(db *gorm.DB, actor auth.Session, id string) (*dto.PropertyResponse, error) {
	s.actor = actor
	s.called = true
	return &dto.PropertyResponse{ID: id, Status: models.PropertyStatusApproved}, nil
}

func TestPropertyGet_AnonymousAllowed(t *testing.T) {
	svc := &fakePropertyService{}
	r := newTestRouter(&services.ServiceContainer{PropertyService: svc})

	w := call(r, http.MethodGet, "/api/v1/properties/"+propertyID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.called)
	assert.True(t, svc.actor.IsZero())

	w = call(r, http.MethodGet, "/api/v1/properties/"+propertyID, bearer(t, "student-1", models.UserRoleStudent), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student-1", svc.actor.UserID())
}

type fakeEmailService struct {
	services.EmailService
	queued *dto.SendEmailRequest
}

func (s *fakeEmailService) Enqueue(db *gorm.DB, actor auth.Session, req *dto.SendEmailRequest) error {
	s.queued = req
	return nil
}

func TestAdminEmail_RequiresKeyAndAdmin(t *testing.T) {
	svc := &fakeEmailService{}
	r := newTestRouter(&services.ServiceContainer{EmailService: svc})
	body := map[string]string{"template": "welcome", "to": "ana@example.com"}
	admin := bearer(t, "admin-1", models.UserRoleAdmin)

	w := call(r, http.MethodPost, "/api/v1/admin/emails", admin, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/v1/admin/emails", bearer(t, "student-1", models.UserRoleStudent), body, "X-API-Key", apiKey)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, "/api/v1/admin/emails", admin, body, "X-API-Key", apiKey)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "ana@example.com", svc.queued.To)
}

type fakeNotificationService struct {
	services.NotificationService
}

func (s *fakeNotificationService) UnreadCount(db *gorm.DB, actor auth.Session) (int64, error) {
	return 3, nil
}

func (s *fakeNotificationService) MarkRead(db *gorm.DB, actor auth.Session, id string) error {
	return apperrors.ErrNotFound(apperrors.DomainNotification, "Notification not found")
}

func TestNotifications(t *testing.T) {
	r := newTestRouter(&services.ServiceContainer{NotificationService: &fakeNotificationService{}})
	student := bearer(t, "student-1", models.UserRoleStudent)

	w := call(r, http.MethodGet, "/api/v1/notifications/unread-count", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread_count":3}`, w.Body.String())

	w = call(r, http.MethodPut, "/api/v1/notifications/other-users/read", student, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	r := newTestRouter(&services.ServiceContainer{})

	w := call(r, http.MethodPost, "/api/v1/uploads/avatars", bearer(t, "student-1", models.UserRoleStudent), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))
}
