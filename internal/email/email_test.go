package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplatesRender(t *testing.T) {
	tm := NewTemplateManager()
	for _, name := range TemplateNames {
		t.Run(name, func(t *testing.T) {
			subject, body, err := tm.Render(name, TemplateData{"name": "Ana", "title": "Loft", "status": "approved"})
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.Contains(t, body, "Ana")
		})
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, err := NewTemplateManager().Render("nope", nil)
	assert.Error(t, err)
}

func TestSuspensionTemplate_Indefinite(t *testing.T) {
	_, body, err := NewTemplateManager().Render(TemplateSuspension, TemplateData{"name": "Bo", "reason": "fraud"})
	require.NoError(t, err)
	assert.Contains(t, body, "indefinitely")

	_, body, err = NewTemplateManager().Render(TemplateSuspension, TemplateData{"name": "Bo", "reason": "fraud", "until": "2024-01-08"})
	require.NoError(t, err)
	assert.Contains(t, body, "until 2024-01-08")
}

func TestVerificationResultSubject(t *testing.T) {
	subject, _, err := NewTemplateManager().Render(TemplateVerificationResult, TemplateData{"status": "approved"})
	require.NoError(t, err)
	assert.Equal(t, "Your agent verification was approved", subject)
}

func TestMailer_SendTemplate(t *testing.T) {
	provider := NewLogProvider()
	m := NewMailer(provider, nil)

	require.NoError(t, m.SendTemplate(TemplateWelcome, "ana@example.com", TemplateData{"name": "Ana"}))
	require.Error(t, m.SendTemplate(TemplateWelcome, "", nil))

	sent := provider.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, sent[0].To)
	assert.Equal(t, "Welcome to RentEase, Ana", sent[0].Subject)
}

func TestSMTPProvider_Validate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587})
	assert.Error(t, p.Validate())

	p = NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "no-reply@example.com"})
	assert.NoError(t, p.Validate())

	p = NewSMTPProvider(&SMTPConfig{Host: "", Port: 587, FromEmail: "x@example.com"})
	assert.Error(t, p.Validate())
}
