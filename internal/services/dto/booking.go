package dto

import (
	"time"

	"rentease_backend/internal/models"
	"rentease_backend/internal/workflow"
)

// CreateBookingRequest - запись на просмотр. AgentID можно не передавать:
// агент берется из объявления, несовпадение отклоняется.
type CreateBookingRequest struct {
	PropertyID  string `json:"property_id" validate:"required,uuid"`
	AgentID     string `json:"agent_id,omitempty" validate:"omitempty,uuid"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime string `json:"booking_time" validate:"required,is-time-of-day"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type RescheduleBookingRequest struct {
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	BookingTime string `json:"booking_time" validate:"required,is-time-of-day"`
}

type DeclineBookingRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type BookingListRequest struct {
	Status   models.BookingStatus `form:"status" validate:"omitempty,is-booking-status"`
	Page     int                  `form:"page" validate:"omitempty,gte=1"`
	PageSize int                  `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type BookingResponse struct {
	ID             string                   `json:"id"`
	PropertyID     string                   `json:"property_id"`
	PropertyTitle  string                   `json:"property_title,omitempty"`
	UserID         string                   `json:"user_id"`
	AgentID        string                   `json:"agent_id"`
	BookingDate    string                   `json:"booking_date"`
	BookingTime    string                   `json:"booking_time"`
	Notes          string                   `json:"notes,omitempty"`
	Status         models.BookingStatus     `json:"status"`
	AllowedActions []workflow.BookingAction `json:"allowed_actions"`
	CanDelete      bool                     `json:"can_delete"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

func NewBookingResponse(b *models.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:             b.ID,
		PropertyID:     b.PropertyID,
		UserID:         b.UserID,
		AgentID:        b.AgentID,
		BookingDate:    b.BookingDate,
		BookingTime:    b.BookingTime,
		Notes:          b.Notes,
		Status:         b.Status,
		AllowedActions: workflow.AllowedBookingActions(b.Status),
		CanDelete:      workflow.CanDeleteBooking(b.Status),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	if b.Property != nil {
		resp.PropertyTitle = b.Property.Title
	}
	return resp
}
