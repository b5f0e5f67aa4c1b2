package email

import "fmt"

// Mailer рендерит шаблон и отправляет письмо через Provider
type Mailer struct {
	provider  Provider
	templates *TemplateManager
}

func NewMailer(provider Provider, templates *TemplateManager) *Mailer {
	if templates == nil {
		templates = NewTemplateManager()
	}
	return &Mailer{provider: provider, templates: templates}
}

// SendTemplate отправляет письмо по шаблону одному получателю
func (m *Mailer) SendTemplate(templateName, to string, data TemplateData) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	subject, html, err := m.templates.Render(templateName, data)
	if err != nil {
		return err
	}
	return m.provider.Send(&Email{
		To:       []string{to},
		Subject:  subject,
		HTMLBody: html,
	})
}

func (m *Mailer) Close() error {
	return m.provider.Close()
}
