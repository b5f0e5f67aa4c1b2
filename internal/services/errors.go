package services

import (
	"errors"

	"rentease_backend/internal/repositories"
	"rentease_backend/internal/workflow"
	"rentease_backend/pkg/apperrors"
)

// mapError переводит ошибки репозиториев и workflow в AppError.
// Уже готовый AppError возвращается как есть.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}

	var te *workflow.TransitionError
	switch {
	case errors.As(err, &te):
		return apperrors.ErrInvalidTransition(te.Entity, te.From, te.Action)
	case errors.Is(err, workflow.ErrReasonRequired):
		return apperrors.FieldError("reason", "Reason is required")
	case errors.Is(err, workflow.ErrActorNotAllowed):
		return apperrors.ErrInsufficientPermissions
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrNotFound(apperrors.DomainProfile, "Profile not found")
	case errors.Is(err, repositories.ErrVerificationNotFound):
		return apperrors.ErrNotFound(apperrors.DomainVerification, "Verification not found")
	case errors.Is(err, repositories.ErrPropertyNotFound):
		return apperrors.ErrNotFound(apperrors.DomainProperty, "Property not found")
	case errors.Is(err, repositories.ErrBookingNotFound):
		return apperrors.ErrNotFound(apperrors.DomainBooking, "Booking not found")
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return apperrors.ErrNotFound(apperrors.DomainNotification, "Notification not found")
	case errors.Is(err, repositories.ErrReportNotFound):
		return apperrors.ErrNotFound(apperrors.DomainReport, "Report not found")
	case errors.Is(err, repositories.ErrSharedRentalNotFound):
		return apperrors.ErrNotFound(apperrors.DomainSharedRental, "Shared rental not found")
	}
	return apperrors.InternalError(err)
}
