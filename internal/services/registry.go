package services

import (
	"rentease_backend/internal/auth"
	"rentease_backend/internal/imageprocessor"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/storage"
)

// Repositories - все репозитории приложения
type Repositories struct {
	Profile      repositories.ProfileRepository
	Verification repositories.VerificationRepository
	Property     repositories.PropertyRepository
	Booking      repositories.BookingRepository
	Notification repositories.NotificationRepository
	Outbox       repositories.OutboxRepository
	Report       repositories.ReportRepository
	Review       repositories.ReviewRepository
	SharedRental repositories.SharedRentalRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Profile:      repositories.NewProfileRepository(),
		Verification: repositories.NewVerificationRepository(),
		Property:     repositories.NewPropertyRepository(),
		Booking:      repositories.NewBookingRepository(),
		Notification: repositories.NewNotificationRepository(),
		Outbox:       repositories.NewOutboxRepository(),
		Report:       repositories.NewReportRepository(),
		Review:       repositories.NewReviewRepository(),
		SharedRental: repositories.NewSharedRentalRepository(),
	}
}

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	BookingService      BookingService
	VerificationService VerificationService
	PropertyService     PropertyService
	ReportService       ReportService
	ReviewService       ReviewService
	SharedRentalService SharedRentalService
	NotificationService NotificationService
	UploadService       UploadService
	EmailService        EmailService
	Notifier            Notifier
}

// Deps - внешние зависимости, общие для сервисов
type Deps struct {
	Tokens        *auth.TokenManager
	Storage       storage.Storage
	Processor     *imageprocessor.Processor
	BaseURL       string
	MaxUploadSize int64
}

func NewServiceContainer(repos *Repositories, deps Deps) *ServiceContainer {
	notifier := NewNotifier(repos.Notification, repos.Outbox, deps.BaseURL)

	return &ServiceContainer{
		AuthService:         NewAuthService(repos.Profile, deps.Tokens, notifier),
		ProfileService:      NewProfileService(repos.Profile),
		BookingService:      NewBookingService(repos.Booking, repos.Property, repos.Verification, notifier),
		VerificationService: NewVerificationService(repos.Verification, repos.Profile, notifier),
		PropertyService:     NewPropertyService(repos.Property, repos.Verification, repos.Booking, repos.Profile, notifier),
		ReportService:       NewReportService(repos.Report, repos.Property, repos.Profile, notifier),
		ReviewService:       NewReviewService(repos.Review, repos.Property, repos.Booking, notifier),
		SharedRentalService: NewSharedRentalService(repos.SharedRental, repos.Property, notifier),
		NotificationService: NewNotificationService(repos.Notification),
		UploadService:       NewUploadService(deps.Storage, deps.Processor, deps.MaxUploadSize),
		EmailService:        NewEmailService(notifier),
		Notifier:            notifier,
	}
}
