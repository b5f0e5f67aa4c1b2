package repositories

import (
	"time"

	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository interface {
	FindByProfileID(db *gorm.DB, profileID string) (*models.AgentVerification, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.AgentVerification, error)
	Save(db *gorm.DB, verification *models.AgentVerification) error
	List(db *gorm.DB, criteria VerificationCriteria) ([]models.AgentVerification, int64, error)
	FindExpiredSuspensions(db *gorm.DB, now time.Time, limit int) ([]models.AgentVerification, error)
}

type VerificationCriteria struct {
	Status    models.VerificationStatus `form:"status"`
	Suspended *bool                     `form:"suspended"`
	Pagination
}

type VerificationRepositoryImpl struct{}

func NewVerificationRepository() VerificationRepository {
	return &VerificationRepositoryImpl{}
}

func (r *VerificationRepositoryImpl) FindByProfileID(db *gorm.DB, profileID string) (*models.AgentVerification, error) {
	var v models.AgentVerification
	if err := db.Where("profile_id = ?", profileID).First(&v).Error; err != nil {
		return nil, notFound(err, ErrVerificationNotFound)
	}
	return &v, nil
}

// FindByIDForUpdate блокирует строку до конца транзакции
func (r *VerificationRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.AgentVerification, error) {
	var v models.AgentVerification
	if err := forUpdate(db).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, notFound(err, ErrVerificationNotFound)
	}
	return &v, nil
}

// Save пишет все поля, включая обнуленные поля приостановки
func (r *VerificationRepositoryImpl) Save(db *gorm.DB, v *models.AgentVerification) error {
	if v.ID == "" {
		return createUnique(db, v)
	}
	return db.Omit("Profile").Save(v).Error
}

func (r *VerificationRepositoryImpl) List(db *gorm.DB, criteria VerificationCriteria) ([]models.AgentVerification, int64, error) {
	query := db.Model(&models.AgentVerification{})
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Suspended != nil {
		query = query.Where("is_suspended = ?", *criteria.Suspended)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.AgentVerification
	err := query.Preload("Profile").
		Order("created_at DESC").
		Scopes(paginate(criteria.Pagination)).
		Find(&list).Error
	return list, total, err
}

// FindExpiredSuspensions - флаг стоит, а срок уже прошел
func (r *VerificationRepositoryImpl) FindExpiredSuspensions(db *gorm.DB, now time.Time, limit int) ([]models.AgentVerification, error) {
	var list []models.AgentVerification
	err := db.Where("is_suspended = ? AND suspended_until IS NOT NULL AND suspended_until <= ?", true, now).
		Order("suspended_until").
		Limit(limit).
		Find(&list).Error
	return list, err
}
