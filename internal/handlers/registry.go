package handlers

import (
	"rentease_backend/internal/auth"
	"rentease_backend/internal/services"
	"rentease_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	BookingHandler      *BookingHandler
	VerificationHandler *VerificationHandler
	PropertyHandler     *PropertyHandler
	ReportHandler       *ReportHandler
	ReviewHandler       *ReviewHandler
	SharedRentalHandler *SharedRentalHandler
	NotificationHandler *NotificationHandler
	UploadHandler       *UploadHandler
	EmailHandler        *EmailHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator, tokens *auth.TokenManager, apiKey string) *AppHandlers {
	base := NewBaseHandler(v, tokens)
	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, sc.AuthService),
		ProfileHandler:      NewProfileHandler(base, sc.ProfileService),
		BookingHandler:      NewBookingHandler(base, sc.BookingService),
		VerificationHandler: NewVerificationHandler(base, sc.VerificationService),
		PropertyHandler:     NewPropertyHandler(base, sc.PropertyService),
		ReportHandler:       NewReportHandler(base, sc.ReportService),
		ReviewHandler:       NewReviewHandler(base, sc.ReviewService),
		SharedRentalHandler: NewSharedRentalHandler(base, sc.SharedRentalService),
		NotificationHandler: NewNotificationHandler(base, sc.NotificationService),
		UploadHandler:       NewUploadHandler(base, sc.UploadService),
		EmailHandler:        NewEmailHandler(base, sc.EmailService, apiKey),
	}
}

// RegisterRoutes регистрирует маршруты всех хэндлеров в группе /api/v1
func (a *AppHandlers) RegisterRoutes(api *gin.RouterGroup) {
	a.AuthHandler.RegisterRoutes(api)
	a.ProfileHandler.RegisterRoutes(api)
	a.BookingHandler.RegisterRoutes(api)
	a.VerificationHandler.RegisterRoutes(api)
	a.PropertyHandler.RegisterRoutes(api)
	a.ReportHandler.RegisterRoutes(api)
	a.ReviewHandler.RegisterRoutes(api)
	a.SharedRentalHandler.RegisterRoutes(api)
	a.NotificationHandler.RegisterRoutes(api)
	a.UploadHandler.RegisterRoutes(api)
	a.EmailHandler.RegisterRoutes(api)
}
