package services

import (
	"rentease_backend/internal/auth"
	"rentease_backend/internal/email"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// EmailService - ручная постановка письма в очередь администратором.
// Само письмо отправляет outbox-воркер.
type EmailService interface {
	Enqueue(db *gorm.DB, actor auth.Session, req *dto.SendEmailRequest) error
}

type EmailServiceImpl struct {
	notifier Notifier
}

func NewEmailService(notifier Notifier) EmailService {
	return &EmailServiceImpl{notifier: notifier}
}

func (s *EmailServiceImpl) Enqueue(db *gorm.DB, actor auth.Session, req *dto.SendEmailRequest) error {
	if !actor.Can(auth.PermEmailsSend) {
		return apperrors.ErrInsufficientPermissions
	}
	if !email.IsKnownTemplate(req.Template) {
		return apperrors.FieldError("template", "Unknown email template")
	}

	vars := req.Variables
	if vars == nil {
		vars = map[string]string{}
	}
	if _, ok := vars["link"]; !ok {
		vars["link"] = s.notifier.Link("")
	}

	if err := s.notifier.QueueEmail(db, EmailNotice{
		Template:  req.Template,
		To:        req.To,
		Variables: vars,
	}); err != nil {
		return apperrors.InternalError(err)
	}

	logger.Info("Email queued", "template", req.Template, "to", req.To, "actor_id", actor.UserID())
	return nil
}
