package apperrors

// ErrorCode - машиночитаемый код ошибки, уходит клиенту в поле "code"
type ErrorCode string

const (
	// Системные
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Бизнес-логика
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeAlreadyExists     ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeLimitExceeded     ErrorCode = "LIMIT_EXCEEDED"
	CodeInvalidOperation  ErrorCode = "INVALID_OPERATION"
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Домены, в которых возникают ошибки (поле "domain" в ответе)
const (
	DomainSystem       = "system"
	DomainAuth         = "auth"
	DomainValidation   = "validation"
	DomainRequest      = "request"
	DomainProfile      = "profile"
	DomainBooking      = "booking"
	DomainVerification = "verification"
	DomainProperty     = "property"
	DomainReport       = "report"
	DomainReview       = "review"
	DomainSharedRental = "shared_rental"
	DomainNotification = "notification"
	DomainUpload       = "upload"
	DomainEmail        = "email"
)
