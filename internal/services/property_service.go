package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/email"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/metrics"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/internal/workflow"
	"rentease_backend/pkg/apperrors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PropertyService interface {
	// Agent
	Create(db *gorm.DB, actor auth.Session, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
	Update(db *gorm.DB, actor auth.Session, id string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)
	Delete(db *gorm.DB, actor auth.Session, id string) error
	ListMine(db *gorm.DB, actor auth.Session, req *dto.PropertySearchRequest) (*dto.PaginatedResponse, error)

	// Public
	ListApproved(db *gorm.DB, req *dto.PropertySearchRequest) (*dto.PaginatedResponse, error)
	Get(db *gorm.DB, actor auth.Session, id string) (*dto.PropertyResponse, error)

	// Student
	RequestContact(db *gorm.DB, actor auth.Session, id string) (*dto.ContactResponse, error)
	Save(db *gorm.DB, actor auth.Session, id string) error
	Unsave(db *gorm.DB, actor auth.Session, id string) error
	ListSaved(db *gorm.DB, actor auth.Session, page, pageSize int) (*dto.PaginatedResponse, error)

	// Admin
	Approve(db *gorm.DB, actor auth.Session, id string) (*dto.PropertyResponse, error)
	Reject(db *gorm.DB, actor auth.Session, id, reason string) (*dto.PropertyResponse, error)
}

type PropertyServiceImpl struct {
	propertyRepo     repositories.PropertyRepository
	verificationRepo repositories.VerificationRepository
	bookingRepo      repositories.BookingRepository
	profileRepo      repositories.ProfileRepository
	notifier         Notifier
	now              func() time.Time
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	verificationRepo repositories.VerificationRepository,
	bookingRepo repositories.BookingRepository,
	profileRepo repositories.ProfileRepository,
	notifier Notifier,
) PropertyService {
	return &PropertyServiceImpl{
		propertyRepo:     propertyRepo,
		verificationRepo: verificationRepo,
		bookingRepo:      bookingRepo,
		profileRepo:      profileRepo,
		notifier:         notifier,
		now:              time.Now,
	}
}

// Create - объявление верифицированного агента публикуется сразу,
// остальные ждут модерации. Приостановленный агент создавать не может.
func (s *PropertyServiceImpl) Create(db *gorm.DB, actor auth.Session, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	if !actor.Can(auth.PermPropertiesWrite) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	status := models.PropertyStatusPending
	v, err := s.verificationRepo.FindByProfileID(tx, actor.UserID())
	switch {
	case errors.Is(err, repositories.ErrVerificationNotFound):
	case err != nil:
		return nil, apperrors.InternalError(err)
	default:
		if workflow.SuspensionActive(v, s.now()) {
			return nil, apperrors.ErrAgentSuspended
		}
		if v.Status == models.VerificationStatusApproved {
			status = models.PropertyStatusApproved
		}
	}

	property := &models.Property{
		AgentProfileID: actor.UserID(),
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		PropertyType:   req.PropertyType,
		Address:        req.Address,
		City:           req.City,
		Price:          req.Price,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		Amenities:      pq.StringArray(req.Amenities),
		Images:         pq.StringArray(req.Images),
		Status:         status,
	}
	if err := s.propertyRepo.Create(tx, property); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Property created", "property_id", property.ID, "agent_id", actor.UserID(), "status", status)
	return dto.NewPropertyResponse(property), nil
}

func (s *PropertyServiceImpl) Update(db *gorm.DB, actor auth.Session, id string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	property, err := s.propertyRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if property.AgentProfileID != actor.UserID() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := s.ensureNotSuspended(tx, actor.UserID()); err != nil {
		return nil, err
	}

	if req.Title != nil {
		property.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.PropertyType != nil {
		property.PropertyType = *req.PropertyType
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.Price != nil {
		property.Price = *req.Price
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	if req.Amenities != nil {
		property.Amenities = pq.StringArray(req.Amenities)
	}
	if req.Images != nil {
		property.Images = pq.StringArray(req.Images)
	}

	if err := s.propertyRepo.Update(tx, property); err != nil {
		return nil, mapError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPropertyResponse(property), nil
}

// ensureNotSuspended - приостановленный агент не может менять объявления
func (s *PropertyServiceImpl) ensureNotSuspended(tx *gorm.DB, agentID string) error {
	v, err := s.verificationRepo.FindByProfileID(tx, agentID)
	switch {
	case errors.Is(err, repositories.ErrVerificationNotFound):
		return nil
	case err != nil:
		return apperrors.InternalError(err)
	}
	if workflow.SuspensionActive(v, s.now()) {
		return apperrors.ErrAgentSuspended
	}
	return nil
}

func (s *PropertyServiceImpl) Delete(db *gorm.DB, actor auth.Session, id string) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	property, err := s.propertyRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return mapError(err)
	}
	if !actor.IsAdmin() && property.AgentProfileID != actor.UserID() {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.propertyRepo.Delete(tx, id); err != nil {
		return mapError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.Info("Property deleted", "property_id", id, "actor_id", actor.UserID())
	return nil
}

func (s *PropertyServiceImpl) ListMine(db *gorm.DB, actor auth.Session, req *dto.PropertySearchRequest) (*dto.PaginatedResponse, error) {
	criteria := searchCriteria(req)
	criteria.AgentProfileID = actor.UserID()
	return s.search(db, criteria, req.Page)
}

func (s *PropertyServiceImpl) ListApproved(db *gorm.DB, req *dto.PropertySearchRequest) (*dto.PaginatedResponse, error) {
	criteria := searchCriteria(req)
	criteria.Status = models.PropertyStatusApproved
	return s.search(db, criteria, req.Page)
}

// Get - неодобренное объявление видят только владелец и админ.
// Просмотр засчитывается всем, кроме владельца.
func (s *PropertyServiceImpl) Get(db *gorm.DB, actor auth.Session, id string) (*dto.PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(db, id)
	if err != nil {
		return nil, mapError(err)
	}

	owner := !actor.IsZero() && property.AgentProfileID == actor.UserID()
	if property.Status != models.PropertyStatusApproved && !owner && !actor.IsAdmin() {
		return nil, apperrors.ErrNotFound(apperrors.DomainProperty, "Property not found")
	}

	if !owner {
		if err := s.propertyRepo.IncrementViews(db, property.ID); err != nil {
			logger.Warn("Failed to count property view", "property_id", property.ID, "error", err)
		} else {
			property.ViewsCount++
		}
	}
	return dto.NewPropertyResponse(property), nil
}

// RequestContact - контакты агента получает только студент с бронью на этот объект
func (s *PropertyServiceImpl) RequestContact(db *gorm.DB, actor auth.Session, id string) (*dto.ContactResponse, error) {
	if !actor.IsStudent() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	property, err := s.propertyRepo.FindByID(db, id)
	if err != nil {
		return nil, mapError(err)
	}

	booked, err := s.bookingRepo.HasBooking(db, actor.UserID(), property.ID,
		models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCompleted)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !booked {
		return nil, apperrors.NewForbiddenError("Book a viewing to see the agent's contacts")
	}

	agent := property.Agent
	if agent == nil {
		if agent, err = s.profileRepo.FindByID(db, property.AgentProfileID); err != nil {
			return nil, mapError(err)
		}
	}
	if err := s.propertyRepo.IncrementContactClicks(db, property.ID); err != nil {
		logger.Warn("Failed to count contact click", "property_id", property.ID, "error", err)
	}

	return &dto.ContactResponse{
		AgentName: agent.FullName,
		Phone:     agent.Phone,
		WhatsApp:  agent.WhatsApp,
		Email:     agent.Email,
	}, nil
}

func (s *PropertyServiceImpl) Save(db *gorm.DB, actor auth.Session, id string) error {
	if !actor.IsStudent() {
		return apperrors.ErrInsufficientPermissions
	}
	property, err := s.propertyRepo.FindByID(db, id)
	if err != nil {
		return mapError(err)
	}
	if property.Status != models.PropertyStatusApproved {
		return apperrors.ErrPropertyNotApproved
	}
	if err := s.propertyRepo.Save(db, actor.UserID(), id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *PropertyServiceImpl) Unsave(db *gorm.DB, actor auth.Session, id string) error {
	if err := s.propertyRepo.Unsave(db, actor.UserID(), id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *PropertyServiceImpl) ListSaved(db *gorm.DB, actor auth.Session, page, pageSize int) (*dto.PaginatedResponse, error) {
	p := repositories.Pagination{Page: page, PageSize: pageSize}
	saved, total, err := s.propertyRepo.ListSaved(db, actor.UserID(), p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]*dto.PropertyResponse, 0, len(saved))
	for _, sp := range saved {
		if sp.Property != nil {
			items = append(items, dto.NewPropertyResponse(sp.Property))
		}
	}
	return dto.NewPaginatedResponse(items, total, page, p.Limit()), nil
}

func (s *PropertyServiceImpl) Approve(db *gorm.DB, actor auth.Session, id string) (*dto.PropertyResponse, error) {
	return s.moderate(db, actor, id, models.PropertyStatusApproved, "")
}

func (s *PropertyServiceImpl) Reject(db *gorm.DB, actor auth.Session, id, reason string) (*dto.PropertyResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.FieldError("reason", "Reason is required")
	}
	return s.moderate(db, actor, id, models.PropertyStatusRejected, reason)
}

func (s *PropertyServiceImpl) moderate(db *gorm.DB, actor auth.Session, id string, status models.PropertyStatus, reason string) (*dto.PropertyResponse, error) {
	if !actor.Can(auth.PermPropertiesModerate) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	property, err := s.propertyRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, mapError(err)
	}
	from := property.Status
	if from == status {
		return nil, apperrors.ErrInvalidTransition(apperrors.DomainProperty, string(from), string(status))
	}

	if err := s.propertyRepo.UpdateStatus(tx, property.ID, status, reason); err != nil {
		return nil, mapError(err)
	}
	property.Status = status
	property.RejectionReason = reason

	if err := notifyListingStatus(tx, s.notifier, s.profileRepo, property); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	action := "approve"
	if status == models.PropertyStatusRejected {
		action = "reject"
	}
	metrics.RecordTransition("property", action)
	logger.TransitionLog("property", property.ID, action, string(from), string(status), actor.UserID())
	return dto.NewPropertyResponse(property), nil
}

// notifyListingStatus - уведомление агенту о модерации; одобрение
// дополнительно ставит письмо listing_approved
func notifyListingStatus(tx *gorm.DB, notifier Notifier, profileRepo repositories.ProfileRepository, p *models.Property) error {
	notice := Notice{
		UserID: p.AgentProfileID,
		Path:   "/properties/" + p.ID,
		Data:   map[string]interface{}{"property_id": p.ID, "status": p.Status},
	}
	if p.Status == models.PropertyStatusApproved {
		notice.Type = models.NotificationPropertyApproved
		notice.Title = "Listing approved"
		notice.Message = fmt.Sprintf("Your listing %q was approved and is now visible", p.Title)
	} else {
		notice.Type = models.NotificationPropertyRejected
		notice.Title = "Listing rejected"
		notice.Message = fmt.Sprintf("Your listing %q was rejected: %s", p.Title, p.RejectionReason)
	}
	if _, err := notifier.Notify(tx, notice); err != nil {
		return err
	}

	if p.Status != models.PropertyStatusApproved {
		return nil
	}
	agent, err := profileRepo.FindByID(tx, p.AgentProfileID)
	if err != nil {
		return err
	}
	return notifier.QueueEmail(tx, EmailNotice{
		Template: email.TemplateListingApproved,
		To:       agent.Email,
		Variables: map[string]string{
			"name":  agent.FullName,
			"title": p.Title,
			"link":  notifier.Link("/properties/" + p.ID),
		},
	})
}

func (s *PropertyServiceImpl) search(db *gorm.DB, criteria repositories.PropertyCriteria, page int) (*dto.PaginatedResponse, error) {
	list, total, err := s.propertyRepo.Search(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]*dto.PropertyResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.NewPropertyResponse(&list[i]))
	}
	return dto.NewPaginatedResponse(items, total, page, criteria.Limit()), nil
}

func searchCriteria(req *dto.PropertySearchRequest) repositories.PropertyCriteria {
	return repositories.PropertyCriteria{
		City:         strings.TrimSpace(req.City),
		PropertyType: req.PropertyType,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		Bedrooms:     req.Bedrooms,
		Pagination:   repositories.Pagination{Page: req.Page, PageSize: req.PageSize},
	}
}
