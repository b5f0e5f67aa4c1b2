package models

import (
	"time"

	"gorm.io/datatypes"
)

// Типы уведомлений
const (
	NotificationBookingCreated        = "booking_created"
	NotificationBookingConfirmed      = "booking_confirmed"
	NotificationBookingDeclined       = "booking_declined"
	NotificationBookingRescheduled    = "booking_rescheduled"
	NotificationBookingCompleted      = "booking_completed"
	NotificationBookingCancelled      = "booking_cancelled"
	NotificationBookingDeleted        = "booking_deleted"
	NotificationVerificationSubmitted = "verification_submitted"
	NotificationVerificationApproved  = "verification_approved"
	NotificationVerificationRejected  = "verification_rejected"
	NotificationAccountSuspended      = "account_suspended"
	NotificationSuspensionLifted      = "suspension_lifted"
	NotificationVerificationRevoked   = "verification_revoked"
	NotificationPropertyApproved      = "property_approved"
	NotificationPropertyRejected      = "property_rejected"
	NotificationReportResolved        = "report_resolved"
	NotificationNewReview             = "new_review"
	NotificationSharedRentalInterest  = "shared_rental_interest"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string         `gorm:"not null" json:"type"`
	Title   string         `gorm:"not null" json:"title"`
	Message string         `json:"message"`
	Link    *string        `json:"link,omitempty"` // deep-link во фронтенд, например /bookings/<id>
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead  bool           `gorm:"default:false;index" json:"is_read"`
	ReadAt  *time.Time     `json:"read_at,omitempty"`
}
