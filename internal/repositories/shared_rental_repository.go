package repositories

import (
	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type SharedRentalRepository interface {
	Create(db *gorm.DB, rental *models.SharedRental) error
	FindByID(db *gorm.DB, id string) (*models.SharedRental, error)
	UpdateStatus(db *gorm.DB, id string, status models.SharedRentalStatus) error
	ListActive(db *gorm.DB, p Pagination) ([]models.SharedRental, int64, error)
	CreateInterest(db *gorm.DB, interest *models.SharedRentalInterest) error
	ListInterests(db *gorm.DB, rentalID string) ([]models.SharedRentalInterest, error)
}

type SharedRentalRepositoryImpl struct{}

func NewSharedRentalRepository() SharedRentalRepository {
	return &SharedRentalRepositoryImpl{}
}

func (r *SharedRentalRepositoryImpl) Create(db *gorm.DB, rental *models.SharedRental) error {
	return db.Omit("Property").Create(rental).Error
}

func (r *SharedRentalRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.SharedRental, error) {
	var rental models.SharedRental
	if err := db.Preload("Property").First(&rental, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrSharedRentalNotFound)
	}
	return &rental, nil
}

func (r *SharedRentalRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.SharedRentalStatus) error {
	result := db.Model(&models.SharedRental{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSharedRentalNotFound
	}
	return nil
}

func (r *SharedRentalRepositoryImpl) ListActive(db *gorm.DB, p Pagination) ([]models.SharedRental, int64, error) {
	query := db.Model(&models.SharedRental{}).Where("status = ?", models.SharedRentalStatusActive)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.SharedRental
	err := query.Preload("Property").Order("created_at DESC").Scopes(paginate(p)).Find(&list).Error
	return list, total, err
}

// CreateInterest возвращает ErrDuplicate при повторном отклике
func (r *SharedRentalRepositoryImpl) CreateInterest(db *gorm.DB, interest *models.SharedRentalInterest) error {
	return createUnique(db, interest)
}

func (r *SharedRentalRepositoryImpl) ListInterests(db *gorm.DB, rentalID string) ([]models.SharedRentalInterest, error) {
	var list []models.SharedRentalInterest
	err := db.Where("shared_rental_id = ?", rentalID).Order("created_at DESC").Find(&list).Error
	return list, err
}
