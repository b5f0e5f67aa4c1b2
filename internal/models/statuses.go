package models

type UserRole string
type BookingStatus string
type VerificationStatus string
type PropertyStatus string
type ReportStatus string
type ReportTargetType string
type SharedRentalStatus string
type OutboxStatus string

const (
	UserRoleStudent UserRole = "student"
	UserRoleAgent   UserRole = "agent"
	UserRoleAdmin   UserRole = "admin"

	// Бронирование просмотра: pending -> confirmed -> completed, либо cancelled
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"

	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"

	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"

	ReportStatusPending  ReportStatus = "pending"
	ReportStatusResolved ReportStatus = "resolved"

	ReportTargetProperty ReportTargetType = "property"
	ReportTargetAgent    ReportTargetType = "agent"

	SharedRentalStatusActive   SharedRentalStatus = "active"
	SharedRentalStatusArchived SharedRentalStatus = "archived"

	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleStudent, UserRoleAgent, UserRoleAdmin:
		return true
	}
	return false
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// Terminal - из этих статусов переходов больше нет
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusApproved, VerificationStatusRejected:
		return true
	}
	return false
}

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusPending, PropertyStatusApproved, PropertyStatusRejected:
		return true
	}
	return false
}

func (t ReportTargetType) Valid() bool {
	return t == ReportTargetProperty || t == ReportTargetAgent
}
