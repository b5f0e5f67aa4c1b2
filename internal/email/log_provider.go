package email

import (
	"strings"
	"sync"

	"rentease_backend/internal/logger"
)

// LogProvider ничего не отправляет, а пишет письмо в лог.
// Используется в development и в тестах.
type LogProvider struct {
	mu   sync.Mutex
	sent []Email
}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(email *Email) error {
	p.mu.Lock()
	p.sent = append(p.sent, *email)
	p.mu.Unlock()

	logger.Info("Email (log provider)",
		"to", strings.Join(email.To, ","),
		"subject", email.Subject,
	)
	return nil
}

// Sent возвращает копию отправленных писем
func (p *LogProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *LogProvider) Validate() error { return nil }
func (p *LogProvider) Close() error    { return nil }
