package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	texttemplate "text/template"
)

// TemplateManager хранит HTML шаблоны писем и шаблоны тем
type TemplateManager struct {
	templates map[string]*template.Template
	subjects  map[string]*texttemplate.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
		subjects:  make(map[string]*texttemplate.Template),
	}
	for name, t := range builtinTemplates {
		if err := tm.AddTemplate(name, t.subject, t.body); err != nil {
			panic(fmt.Sprintf("builtin email template %s: %v", name, err))
		}
	}
	return tm
}

// Render возвращает тему и HTML тело письма
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	subj := tm.subjects[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", "", fmt.Errorf("template not found: %s", templateName)
	}

	var body strings.Builder
	if err := tpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}

	var subject strings.Builder
	if subj != nil {
		if err := subj.Execute(&subject, data); err != nil {
			return "", "", fmt.Errorf("failed to execute subject: %w", err)
		}
	}

	return strings.TrimSpace(subject.String()), body.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name, subject, body string) error {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(layoutHeader + body + layoutFooter)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	subj, err := texttemplate.New(name + "_subject").Option("missingkey=zero").Parse(subject)
	if err != nil {
		return fmt.Errorf("failed to parse subject: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.subjects[name] = subj
	tm.mutex.Unlock()

	return nil
}

// LoadTemplates переопределяет тела встроенных шаблонов файлами <name>.html
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		templateName := strings.TrimSuffix(filepath.Base(path), ".html")
		subject := templateName
		if t, ok := builtinTemplates[templateName]; ok {
			subject = t.subject
		}
		if err := tm.AddTemplate(templateName, subject, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", templateName, err)
		}

		return nil
	})
}

// TemplateNames возвращает список имен загруженных шаблонов
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}

	return names
}

type builtinTemplate struct {
	subject string
	body    string
}

const layoutHeader = `<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#1f2937">
<h2 style="color:#2563eb">RentEase</h2>
`

const layoutFooter = `
<p style="color:#6b7280;font-size:12px">You are receiving this email because you have an account on RentEase.</p>
</body></html>`

var builtinTemplates = map[string]builtinTemplate{
	TemplateWelcome: {
		subject: "Welcome to RentEase, {{.name}}",
		body: `<p>Hi {{.name}},</p>
<p>Your RentEase account has been created.</p>
<p><a href="{{.link}}">Open RentEase</a></p>`,
	},
	TemplateVerificationResult: {
		subject: "Your agent verification was {{.status}}",
		body: `<p>Hi {{.name}},</p>
<p>Your agent verification was <strong>{{.status}}</strong>.</p>
{{if .agent_id}}<p>Your agent ID is <strong>{{.agent_id}}</strong>.</p>{{end}}
{{if .reason}}<p>Reason: {{.reason}}</p>{{end}}
<p><a href="{{.link}}">View your dashboard</a></p>`,
	},
	TemplateSuspension: {
		subject: "Your agent account has been suspended",
		body: `<p>Hi {{.name}},</p>
<p>Your agent account has been suspended{{if .until}} until {{.until}}{{else}} indefinitely{{end}}.</p>
<p>Reason: {{.reason}}</p>
<p>While suspended you cannot publish listings or manage bookings.</p>`,
	},
	TemplateSuspensionLifted: {
		subject: "Your agent account suspension has been lifted",
		body: `<p>Hi {{.name}},</p>
<p>The suspension on your agent account has been lifted. You can manage your listings and bookings again.</p>
<p><a href="{{.link}}">Go to your dashboard</a></p>`,
	},
	TemplateReportResolved: {
		subject: "Your report has been resolved",
		body: `<p>Hi {{.name}},</p>
<p>Your report has been reviewed and resolved.</p>
{{if .note}}<p>Moderator note: {{.note}}</p>{{end}}`,
	},
	TemplateListingApproved: {
		subject: "Your listing \"{{.title}}\" is live",
		body: `<p>Hi {{.name}},</p>
<p>Your listing <strong>{{.title}}</strong> has been approved and is now visible to students.</p>
<p><a href="{{.link}}">View listing</a></p>`,
	},
}
