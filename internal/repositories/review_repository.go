package repositories

import (
	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	ListForProperty(db *gorm.DB, propertyID string, p Pagination) ([]models.Review, int64, error)
	AverageRating(db *gorm.DB, propertyID string) (float64, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

// Create возвращает ErrDuplicate, если студент уже оставил отзыв
func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	return createUnique(db, review)
}

func (r *ReviewRepositoryImpl) ListForProperty(db *gorm.DB, propertyID string, p Pagination) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("property_id = ?", propertyID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Review
	err := query.Order("created_at DESC").Scopes(paginate(p)).Find(&list).Error
	return list, total, err
}

func (r *ReviewRepositoryImpl) AverageRating(db *gorm.DB, propertyID string) (float64, error) {
	var avg *float64
	err := db.Model(&models.Review{}).
		Select("AVG(rating)").
		Where("property_id = ?", propertyID).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
