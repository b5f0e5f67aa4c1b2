package services

import (
	"errors"
	"strings"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/email"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/internal/storage"
	"rentease_backend/internal/workflow"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type VerificationService interface {
	// Agent
	Submit(db *gorm.DB, actor auth.Session, req *dto.SubmitVerificationRequest) (*dto.VerificationResponse, error)
	GetMine(db *gorm.DB, actor auth.Session) (*dto.VerificationResponse, error)

	// Admin
	List(db *gorm.DB, actor auth.Session, req *dto.VerificationListRequest) (*dto.PaginatedResponse, error)
	Approve(db *gorm.DB, actor auth.Session, id string) (*dto.VerificationResponse, error)
	Reject(db *gorm.DB, actor auth.Session, id, reason string) (*dto.VerificationResponse, error)
	Suspend(db *gorm.DB, actor auth.Session, id string, req *dto.SuspendAgentRequest) (*dto.VerificationResponse, error)
	LiftSuspension(db *gorm.DB, actor auth.Session, id string) (*dto.VerificationResponse, error)
	Revoke(db *gorm.DB, actor auth.Session, id, reason string) (*dto.VerificationResponse, error)

	// Worker
	LiftExpired(db *gorm.DB, limit int) (int, error)
}

type VerificationServiceImpl struct {
	verificationRepo repositories.VerificationRepository
	profileRepo      repositories.ProfileRepository
	notifier         Notifier
	now              func() time.Time
	newAgentCode     func() string
}

func NewVerificationService(
	verificationRepo repositories.VerificationRepository,
	profileRepo repositories.ProfileRepository,
	notifier Notifier,
) VerificationService {
	return &VerificationServiceImpl{
		verificationRepo: verificationRepo,
		profileRepo:      profileRepo,
		notifier:         notifier,
		now:              time.Now,
		newAgentCode:     workflow.NewAgentCode,
	}
}

// verificationEffect - уведомление и письмо, которые сопровождают действие
type verificationEffect struct {
	notice Notice
	email  *EmailNotice
}

// Submit - агент отправляет (или повторно отправляет) документы
func (s *VerificationServiceImpl) Submit(db *gorm.DB, actor auth.Session, req *dto.SubmitVerificationRequest) (*dto.VerificationResponse, error) {
	if !actor.IsAgent() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	// документы загружаются заранее в приватный бакет агента
	documentPath := strings.TrimSpace(req.DocumentURL)
	bucket, ownerID, ok := storage.ParseKey(documentPath)
	if !ok || bucket.Name != storage.BucketAgentDocuments || ownerID != actor.UserID() {
		return nil, apperrors.FieldError("document_url", "Document must be uploaded to your agent-documents folder")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	v, err := s.verificationRepo.FindByProfileID(tx, actor.UserID())
	switch {
	case errors.Is(err, repositories.ErrVerificationNotFound):
		v = &models.AgentVerification{ProfileID: actor.UserID()}
	case err != nil:
		return nil, apperrors.InternalError(err)
	}

	from := workflow.StateOf(v)
	if err := workflow.Submit(v, documentPath); err != nil {
		return nil, mapError(err)
	}
	v.BusinessName = req.BusinessName
	v.IDNumber = req.IDNumber

	if err := s.verificationRepo.Save(tx, v); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrConflict(apperrors.DomainVerification, "Verification already submitted")
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.notifier.Notify(tx, Notice{
		UserID:  actor.UserID(),
		Type:    models.NotificationVerificationSubmitted,
		Title:   "Verification submitted",
		Message: "Your documents were received and are waiting for review",
		Path:    "/agent/verification",
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordTransition("verification", string(workflow.VerificationSubmit))
	logger.TransitionLog("verification", v.ID, string(workflow.VerificationSubmit), from, workflow.StateOf(v), actor.UserID())
	return dto.NewVerificationResponse(v, s.now()), nil
}

func (s *VerificationServiceImpl) GetMine(db *gorm.DB, actor auth.Session) (*dto.VerificationResponse, error) {
	v, err := s.verificationRepo.FindByProfileID(db, actor.UserID())
	if err != nil {
		return nil, mapError(err)
	}
	return dto.NewVerificationResponse(v, s.now()), nil
}

func (s *VerificationServiceImpl) List(db *gorm.DB, actor auth.Session, req *dto.VerificationListRequest) (*dto.PaginatedResponse, error) {
	if !actor.Can(auth.PermAgentsVerify) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	criteria := repositories.VerificationCriteria{
		Status:     req.Status,
		Suspended:  req.Suspended,
		Pagination: repositories.Pagination{Page: req.Page, PageSize: req.PageSize},
	}
	list, total, err := s.verificationRepo.List(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	items := make([]*dto.VerificationResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.NewVerificationResponse(&list[i], now))
	}
	return dto.NewPaginatedResponse(items, total, req.Page, criteria.Limit()), nil
}

func (s *VerificationServiceImpl) Approve(db *gorm.DB, actor auth.Session, id string) (*dto.VerificationResponse, error) {
	return s.apply(db, actor, id, workflow.VerificationApprove,
		func(v *models.AgentVerification, now time.Time) error {
			return workflow.Approve(v, actor.UserID(), s.newAgentCode(), now)
		},
		func(v *models.AgentVerification, p *models.Profile) verificationEffect {
			return verificationEffect{
				notice: Notice{
					Type:    models.NotificationVerificationApproved,
					Title:   "Verification approved",
					Message: "Your agent verification was approved. Your agent ID is " + *v.AgentID,
					Data:    map[string]interface{}{"agent_id": *v.AgentID},
				},
				email: &EmailNotice{
					Template: email.TemplateVerificationResult,
					Variables: map[string]string{
						"status":   "approved",
						"agent_id": *v.AgentID,
					},
				},
			}
		})
}

func (s *VerificationServiceImpl) Reject(db *gorm.DB, actor auth.Session, id, reason string) (*dto.VerificationResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, mapError(workflow.ErrReasonRequired)
	}
	return s.apply(db, actor, id, workflow.VerificationReject,
		func(v *models.AgentVerification, now time.Time) error {
			return workflow.Reject(v, actor.UserID(), reason, now)
		},
		func(v *models.AgentVerification, p *models.Profile) verificationEffect {
			return verificationEffect{
				notice: Notice{
					Type:    models.NotificationVerificationRejected,
					Title:   "Verification rejected",
					Message: "Your agent verification was rejected: " + v.RejectionReason,
				},
				email: &EmailNotice{
					Template: email.TemplateVerificationResult,
					Variables: map[string]string{
						"status": "rejected",
						"reason": v.RejectionReason,
					},
				},
			}
		})
}

// Suspend - пустая причина или неизвестный срок отклоняются до обращения к БД
func (s *VerificationServiceImpl) Suspend(db *gorm.DB, actor auth.Session, id string, req *dto.SuspendAgentRequest) (*dto.VerificationResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, mapError(workflow.ErrReasonRequired)
	}
	if !req.Duration.Valid() {
		return nil, apperrors.FieldError("duration", "Unknown suspension duration")
	}
	return s.apply(db, actor, id, workflow.VerificationSuspend,
		func(v *models.AgentVerification, now time.Time) error {
			return workflow.Suspend(v, actor.UserID(), req.Duration, req.Reason, now)
		},
		func(v *models.AgentVerification, p *models.Profile) verificationEffect {
			until := ""
			msg := "Your agent account was suspended indefinitely: " + v.SuspensionReason
			if v.SuspendedUntil != nil {
				until = v.SuspendedUntil.Format("2006-01-02")
				msg = "Your agent account was suspended until " + until + ": " + v.SuspensionReason
			}
			return verificationEffect{
				notice: Notice{
					Type:    models.NotificationAccountSuspended,
					Title:   "Account suspended",
					Message: msg,
					Data:    map[string]interface{}{"duration": string(req.Duration), "until": until},
				},
				email: &EmailNotice{
					Template: email.TemplateSuspension,
					Variables: map[string]string{
						"reason": v.SuspensionReason,
						"until":  until,
					},
				},
			}
		})
}

func (s *VerificationServiceImpl) LiftSuspension(db *gorm.DB, actor auth.Session, id string) (*dto.VerificationResponse, error) {
	return s.apply(db, actor, id, workflow.VerificationLift,
		func(v *models.AgentVerification, now time.Time) error {
			return workflow.LiftSuspension(v)
		},
		liftedEffect)
}

func (s *VerificationServiceImpl) Revoke(db *gorm.DB, actor auth.Session, id, reason string) (*dto.VerificationResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, mapError(workflow.ErrReasonRequired)
	}
	return s.apply(db, actor, id, workflow.VerificationRevoke,
		func(v *models.AgentVerification, now time.Time) error {
			return workflow.Revoke(v, actor.UserID(), reason, now)
		},
		func(v *models.AgentVerification, p *models.Profile) verificationEffect {
			return verificationEffect{
				notice: Notice{
					Type:    models.NotificationVerificationRevoked,
					Title:   "Verification revoked",
					Message: "Your agent verification was revoked: " + v.RevocationReason,
				},
				email: &EmailNotice{
					Template: email.TemplateVerificationResult,
					Variables: map[string]string{
						"status": "revoked",
						"reason": v.RevocationReason,
					},
				},
			}
		})
}

// LiftExpired снимает истекшие срочные приостановки. Каждая строка
// обрабатывается в своей транзакции, ошибка одной не останавливает остальные.
func (s *VerificationServiceImpl) LiftExpired(db *gorm.DB, limit int) (int, error) {
	now := s.now()
	expired, err := s.verificationRepo.FindExpiredSuspensions(db, now, limit)
	if err != nil {
		return 0, err
	}

	lifted := 0
	for _, candidate := range expired {
		if err := s.liftExpiredOne(db, candidate.ID, now); err != nil {
			logger.Error("Failed to lift expired suspension", "verification_id", candidate.ID, "error", err)
			continue
		}
		lifted++
	}
	return lifted, nil
}

func (s *VerificationServiceImpl) liftExpiredOne(db *gorm.DB, id string, now time.Time) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	v, err := s.verificationRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return err
	}
	// могли снять вручную, пока строка ждала блокировки
	if !workflow.SuspensionExpired(v, now) {
		return nil
	}
	if err := workflow.LiftSuspension(v); err != nil {
		return err
	}
	if err := s.verificationRepo.Save(tx, v); err != nil {
		return err
	}
	if err := s.emit(tx, v, liftedEffect); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	metrics.RecordTransition("verification", string(workflow.VerificationLift))
	logger.TransitionLog("verification", v.ID, string(workflow.VerificationLift), "suspended", workflow.StateOf(v), "system")
	return nil
}

func liftedEffect(v *models.AgentVerification, p *models.Profile) verificationEffect {
	return verificationEffect{
		notice: Notice{
			Type:    models.NotificationSuspensionLifted,
			Title:   "Suspension lifted",
			Message: "Your agent account is active again",
		},
		email: &EmailNotice{Template: email.TemplateSuspensionLifted},
	}
}

// apply - общий путь админских действий: блокировка строки, переход,
// сохранение, уведомление и письмо в одной транзакции
func (s *VerificationServiceImpl) apply(
	db *gorm.DB,
	actor auth.Session,
	id string,
	action workflow.VerificationAction,
	mutate func(v *models.AgentVerification, now time.Time) error,
	effect func(v *models.AgentVerification, p *models.Profile) verificationEffect,
) (*dto.VerificationResponse, error) {
	if !actor.Can(auth.PermAgentsVerify) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	v, err := s.verificationRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, mapError(err)
	}

	now := s.now()
	from := workflow.StateOf(v)
	if err := mutate(v, now); err != nil {
		return nil, mapError(err)
	}
	if err := s.verificationRepo.Save(tx, v); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.emit(tx, v, effect); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordTransition("verification", string(action))
	logger.TransitionLog("verification", v.ID, string(action), from, workflow.StateOf(v), actor.UserID())
	return dto.NewVerificationResponse(v, now), nil
}

func (s *VerificationServiceImpl) emit(
	tx *gorm.DB,
	v *models.AgentVerification,
	effect func(v *models.AgentVerification, p *models.Profile) verificationEffect,
) error {
	profile, err := s.profileRepo.FindByID(tx, v.ProfileID)
	if err != nil {
		return err
	}
	v.Profile = profile

	e := effect(v, profile)
	e.notice.UserID = profile.ID
	e.notice.Path = "/agent/verification"
	if _, err := s.notifier.Notify(tx, e.notice); err != nil {
		return err
	}

	if e.email == nil {
		return nil
	}
	e.email.To = profile.Email
	if e.email.Variables == nil {
		e.email.Variables = map[string]string{}
	}
	e.email.Variables["name"] = profile.FullName
	e.email.Variables["link"] = s.notifier.Link("/agent/verification")
	return s.notifier.QueueEmail(tx, *e.email)
}
