package email

import (
	"rentease_backend/internal/config"
	"rentease_backend/internal/logger"
)

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет готовое сообщение
	Send(email *Email) error

	// Validate проверяет конфигурацию провайдера
	Validate() error

	// Close закрывает соединение с провайдером
	Close() error
}

// NewProvider выбирает провайдера: без SMTP хоста письма только логируются
func NewProvider(cfg *config.Config) Provider {
	smtpCfg := ConfigFrom(cfg)
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP host is not configured, emails will be logged only")
		return NewLogProvider()
	}
	return NewSMTPProvider(smtpCfg)
}
