package dto

// SendEmailRequest - ручная отправка письма администратором
type SendEmailRequest struct {
	Template  string            `json:"template" validate:"required,oneof=welcome verification_result suspension suspension_lifted report_resolved listing_approved"`
	To        string            `json:"to" validate:"required,email"`
	Variables map[string]string `json:"variables"`
}
