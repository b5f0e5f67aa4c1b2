package email

// Email представляет структуру email сообщения
type Email struct {
	From     string
	FromName string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]string

// Имена встроенных шаблонов
const (
	TemplateWelcome            = "welcome"
	TemplateVerificationResult = "verification_result"
	TemplateSuspension         = "suspension"
	TemplateSuspensionLifted   = "suspension_lifted"
	TemplateReportResolved     = "report_resolved"
	TemplateListingApproved    = "listing_approved"
)

// TemplateNames - допустимые значения поля template
var TemplateNames = []string{
	TemplateWelcome,
	TemplateVerificationResult,
	TemplateSuspension,
	TemplateSuspensionLifted,
	TemplateReportResolved,
	TemplateListingApproved,
}

func IsKnownTemplate(name string) bool {
	for _, n := range TemplateNames {
		if n == name {
			return true
		}
	}
	return false
}
