package repositories

import (
	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type PropertyRepository interface {
	Create(db *gorm.DB, property *models.Property) error
	FindByID(db *gorm.DB, id string) (*models.Property, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Property, error)
	Update(db *gorm.DB, property *models.Property) error
	UpdateStatus(db *gorm.DB, id string, status models.PropertyStatus, rejectionReason string) error
	Delete(db *gorm.DB, id string) error
	Search(db *gorm.DB, criteria PropertyCriteria) ([]models.Property, int64, error)
	IncrementViews(db *gorm.DB, id string) error
	IncrementContactClicks(db *gorm.DB, id string) error

	Save(db *gorm.DB, profileID, propertyID string) error
	Unsave(db *gorm.DB, profileID, propertyID string) error
	ListSaved(db *gorm.DB, profileID string, p Pagination) ([]models.SavedProperty, int64, error)
}

// PropertyCriteria - фильтры каталога. Пустой Status означает любые статусы
// (используется для "мои объявления" и админки).
type PropertyCriteria struct {
	AgentProfileID string                `form:"-"`
	Status         models.PropertyStatus `form:"status"`
	City           string                `form:"city"`
	PropertyType   string                `form:"property_type"`
	MinPrice       float64               `form:"min_price"`
	MaxPrice       float64               `form:"max_price"`
	Bedrooms       int                   `form:"bedrooms"`
	Pagination
}

type PropertyRepositoryImpl struct{}

func NewPropertyRepository() PropertyRepository {
	return &PropertyRepositoryImpl{}
}

func (r *PropertyRepositoryImpl) Create(db *gorm.DB, property *models.Property) error {
	return db.Omit("Agent").Create(property).Error
}

func (r *PropertyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Property, error) {
	var p models.Property
	if err := db.Preload("Agent").First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrPropertyNotFound)
	}
	return &p, nil
}

func (r *PropertyRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Property, error) {
	var p models.Property
	if err := forUpdate(db).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err, ErrPropertyNotFound)
	}
	return &p, nil
}

func (r *PropertyRepositoryImpl) Update(db *gorm.DB, p *models.Property) error {
	result := db.Model(&models.Property{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"title":         p.Title,
		"description":   p.Description,
		"property_type": p.PropertyType,
		"address":       p.Address,
		"city":          p.City,
		"price":         p.Price,
		"bedrooms":      p.Bedrooms,
		"bathrooms":     p.Bathrooms,
		"amenities":     p.Amenities,
		"images":        p.Images,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.PropertyStatus, rejectionReason string) error {
	result := db.Model(&models.Property{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           status,
		"rejection_reason": rejectionReason,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) Search(db *gorm.DB, c PropertyCriteria) ([]models.Property, int64, error) {
	query := db.Model(&models.Property{})
	if c.AgentProfileID != "" {
		query = query.Where("agent_profile_id = ?", c.AgentProfileID)
	}
	if c.Status != "" {
		query = query.Where("status = ?", c.Status)
	}
	if c.City != "" {
		query = query.Where("city ILIKE ?", c.City)
	}
	if c.PropertyType != "" {
		query = query.Where("property_type = ?", c.PropertyType)
	}
	if c.MinPrice > 0 {
		query = query.Where("price >= ?", c.MinPrice)
	}
	if c.MaxPrice > 0 {
		query = query.Where("price <= ?", c.MaxPrice)
	}
	if c.Bedrooms > 0 {
		query = query.Where("bedrooms >= ?", c.Bedrooms)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Property
	err := query.Order("created_at DESC").Scopes(paginate(c.Pagination)).Find(&list).Error
	return list, total, err
}

func (r *PropertyRepositoryImpl) IncrementViews(db *gorm.DB, id string) error {
	return db.Model(&models.Property{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

func (r *PropertyRepositoryImpl) IncrementContactClicks(db *gorm.DB, id string) error {
	return db.Model(&models.Property{}).Where("id = ?", id).
		UpdateColumn("contact_clicks", gorm.Expr("contact_clicks + 1")).Error
}

// Save добавляет в избранное; повторное добавление не ошибка
func (r *PropertyRepositoryImpl) Save(db *gorm.DB, profileID, propertyID string) error {
	err := createUnique(db, &models.SavedProperty{ProfileID: profileID, PropertyID: propertyID})
	if err == ErrDuplicate {
		return nil
	}
	return err
}

func (r *PropertyRepositoryImpl) Unsave(db *gorm.DB, profileID, propertyID string) error {
	return db.Where("profile_id = ? AND property_id = ?", profileID, propertyID).
		Delete(&models.SavedProperty{}).Error
}

func (r *PropertyRepositoryImpl) ListSaved(db *gorm.DB, profileID string, p Pagination) ([]models.SavedProperty, int64, error) {
	query := db.Model(&models.SavedProperty{}).Where("profile_id = ?", profileID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.SavedProperty
	err := query.Preload("Property").Order("created_at DESC").Scopes(paginate(p)).Find(&list).Error
	return list, total, err
}
