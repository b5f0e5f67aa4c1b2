package services

import (
	"strings"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/email"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReportService interface {
	File(db *gorm.DB, actor auth.Session, req *dto.CreateReportRequest) (*models.Report, error)
	List(db *gorm.DB, actor auth.Session, req *dto.ReportListRequest) (*dto.PaginatedResponse, error)
	Resolve(db *gorm.DB, actor auth.Session, id string, req *dto.ResolveReportRequest) (*models.Report, error)
}

type ReportServiceImpl struct {
	reportRepo   repositories.ReportRepository
	propertyRepo repositories.PropertyRepository
	profileRepo  repositories.ProfileRepository
	notifier     Notifier
	now          func() time.Time
}

func NewReportService(
	reportRepo repositories.ReportRepository,
	propertyRepo repositories.PropertyRepository,
	profileRepo repositories.ProfileRepository,
	notifier Notifier,
) ReportService {
	return &ReportServiceImpl{
		reportRepo:   reportRepo,
		propertyRepo: propertyRepo,
		profileRepo:  profileRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

// File - жалоба на объявление или агента; цель должна существовать
func (s *ReportServiceImpl) File(db *gorm.DB, actor auth.Session, req *dto.CreateReportRequest) (*models.Report, error) {
	if !actor.Can(auth.PermReportsCreate) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	switch req.TargetType {
	case models.ReportTargetProperty:
		if _, err := s.propertyRepo.FindByID(db, req.TargetID); err != nil {
			return nil, mapError(err)
		}
	case models.ReportTargetAgent:
		agent, err := s.profileRepo.FindByID(db, req.TargetID)
		if err != nil {
			return nil, mapError(err)
		}
		if agent.Role != models.UserRoleAgent {
			return nil, apperrors.FieldError("target_id", "Target is not an agent")
		}
	default:
		return nil, apperrors.FieldError("target_type", "Unknown report target")
	}
	if req.TargetID == actor.UserID() {
		return nil, apperrors.ErrCannotModifySelf
	}

	report := &models.Report{
		ReporterID:  actor.UserID(),
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Reason:      strings.TrimSpace(req.Reason),
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(db, report); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Report filed", "report_id", report.ID, "target_type", report.TargetType, "reporter_id", actor.UserID())
	return report, nil
}

func (s *ReportServiceImpl) List(db *gorm.DB, actor auth.Session, req *dto.ReportListRequest) (*dto.PaginatedResponse, error) {
	if !actor.Can(auth.PermReportsResolve) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	criteria := repositories.ReportCriteria{
		Status:     req.Status,
		TargetType: req.TargetType,
		Pagination: repositories.Pagination{Page: req.Page, PageSize: req.PageSize},
	}
	reports, total, err := s.reportRepo.List(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(reports, total, req.Page, criteria.Limit()), nil
}

// Resolve закрывает жалобу. Для жалобы на объявление с RejectProperty
// объявление отклоняется в той же транзакции.
func (s *ReportServiceImpl) Resolve(db *gorm.DB, actor auth.Session, id string, req *dto.ResolveReportRequest) (*models.Report, error) {
	if !actor.Can(auth.PermReportsResolve) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	report, err := s.reportRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if report.Status == models.ReportStatusResolved {
		return nil, apperrors.ErrInvalidTransition(apperrors.DomainReport, string(report.Status), "resolve")
	}

	now := s.now()
	adminID := actor.UserID()
	report.Status = models.ReportStatusResolved
	report.ResolutionNote = strings.TrimSpace(req.Note)
	report.ResolvedBy = &adminID
	report.ResolvedAt = &now
	if err := s.reportRepo.Resolve(tx, report); err != nil {
		return nil, mapError(err)
	}

	if req.RejectProperty && report.TargetType == models.ReportTargetProperty {
		if err := s.rejectReportedProperty(tx, report); err != nil {
			return nil, mapError(err)
		}
	}

	reporter, err := s.profileRepo.FindByID(tx, report.ReporterID)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.notifier.Notify(tx, Notice{
		UserID:  reporter.ID,
		Type:    models.NotificationReportResolved,
		Title:   "Report resolved",
		Message: "Your report was reviewed: " + report.ResolutionNote,
		Data:    map[string]interface{}{"report_id": report.ID},
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.notifier.QueueEmail(tx, EmailNotice{
		Template: email.TemplateReportResolved,
		To:       reporter.Email,
		Variables: map[string]string{
			"name": reporter.FullName,
			"note": report.ResolutionNote,
		},
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordTransition("report", "resolve")
	logger.TransitionLog("report", report.ID, "resolve", string(models.ReportStatusPending), string(report.Status), adminID)
	return report, nil
}

func (s *ReportServiceImpl) rejectReportedProperty(tx *gorm.DB, report *models.Report) error {
	property, err := s.propertyRepo.FindByIDForUpdate(tx, report.TargetID)
	if err != nil {
		return err
	}
	if property.Status == models.PropertyStatusRejected {
		return nil
	}

	reason := "Rejected after a report: " + report.Reason
	if err := s.propertyRepo.UpdateStatus(tx, property.ID, models.PropertyStatusRejected, reason); err != nil {
		return err
	}
	property.Status = models.PropertyStatusRejected
	property.RejectionReason = reason

	metrics.RecordTransition("property", "reject")
	return notifyListingStatus(tx, s.notifier, s.profileRepo, property)
}
