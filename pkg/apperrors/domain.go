package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок предметной области.
*/

// ErrNotFound - ресурс домена не найден (404)
func ErrNotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists - уникальность нарушена (409)
func ErrAlreadyExists(domain, message string) *AppError {
	return New(CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(domain, message string) *AppError {
	return New(CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - операция невозможна по бизнес-правилам (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidTransition - переход статуса не разрешен таблицей переходов (409)
func ErrInvalidTransition(domain, from, action string) *AppError {
	return New(CodeInvalidTransition, domain, "Transition is not allowed", http.StatusConflict).
		WithDetails(map[string]string{"from": from, "action": action})
}

// --- Auth ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	DomainAuth,
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	DomainAuth,
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	DomainAuth,
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	DomainAuth,
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidAPIKey = New(
	CodeUnauthorized,
	DomainEmail,
	"Invalid API key",
	http.StatusUnauthorized,
)

var ErrRateLimited = New(
	CodeRateLimited,
	DomainRequest,
	"Too many requests",
	http.StatusTooManyRequests,
)

// --- Profiles ---

var ErrCannotModifySelf = New(
	CodeForbidden,
	DomainProfile,
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// ErrLastAdmin - нельзя удалить или понизить последнего администратора
var ErrLastAdmin = New(
	CodeInvalidOperation,
	DomainProfile,
	"Cannot remove the last remaining admin",
	http.StatusBadRequest,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	DomainProfile,
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// --- Bookings ---

var ErrBookingSlotTaken = New(
	CodeConflict,
	DomainBooking,
	"This viewing slot is already booked",
	http.StatusConflict,
)

var ErrBookingNotTerminal = New(
	CodeInvalidOperation,
	DomainBooking,
	"Only completed or cancelled bookings can be deleted",
	http.StatusBadRequest,
)

// --- Verification ---

var ErrAgentSuspended = New(
	CodeForbidden,
	DomainVerification,
	"Your agent account is suspended",
	http.StatusForbidden,
)

var ErrAgentNotVerified = New(
	CodeForbidden,
	DomainVerification,
	"Agent verification is required",
	http.StatusForbidden,
)

// --- Properties ---

var ErrPropertyNotApproved = New(
	CodeInvalidOperation,
	DomainProperty,
	"Property is not approved",
	http.StatusBadRequest,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	DomainUpload,
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	DomainUpload,
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

var ErrUnknownBucket = New(
	CodeValidationFailed,
	DomainUpload,
	"Unknown storage bucket",
	http.StatusBadRequest,
)

var ErrFileNotFound = New(
	CodeNotFound,
	DomainUpload,
	"File not found",
	http.StatusNotFound,
)
