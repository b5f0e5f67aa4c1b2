package repositories

import (
	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	FindByEmail(db *gorm.DB, email string) (*models.Profile, error)
	Update(db *gorm.DB, profile *models.Profile) error
	UpdateRole(db *gorm.DB, id string, role models.UserRole) error
	Delete(db *gorm.DB, id string) error
	CountByRoleForUpdate(db *gorm.DB, role models.UserRole) (int64, error)
	List(db *gorm.DB, criteria ProfileCriteria) ([]models.Profile, int64, error)
}

type ProfileCriteria struct {
	Role   models.UserRole `form:"role"`
	Search string          `form:"search"`
	Pagination
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.Profile) error {
	return createUnique(db, profile)
}

func (r *ProfileRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := db.Preload("Verification").First(&profile, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := db.Where("LOWER(email) = LOWER(?)", email).First(&profile).Error; err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(db *gorm.DB, profile *models.Profile) error {
	result := db.Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"full_name":  profile.FullName,
		"phone":      profile.Phone,
		"whatsapp":   profile.WhatsApp,
		"student_id": profile.StudentID,
		"avatar_url": profile.AvatarURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) UpdateRole(db *gorm.DB, id string, role models.UserRole) error {
	result := db.Model(&models.Profile{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Profile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// CountByRoleForUpdate блокирует строки роли до конца транзакции.
// Postgres не допускает FOR UPDATE с COUNT, поэтому выбираем id.
func (r *ProfileRepositoryImpl) CountByRoleForUpdate(db *gorm.DB, role models.UserRole) (int64, error) {
	var ids []string
	err := forUpdate(db).Model(&models.Profile{}).Where("role = ?", role).Pluck("id", &ids).Error
	return int64(len(ids)), err
}

func (r *ProfileRepositoryImpl) List(db *gorm.DB, criteria ProfileCriteria) ([]models.Profile, int64, error) {
	query := db.Model(&models.Profile{})
	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.Search != "" {
		like := "%" + criteria.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []models.Profile
	err := query.Order("created_at DESC").Scopes(paginate(criteria.Pagination)).Find(&profiles).Error
	return profiles, total, err
}
