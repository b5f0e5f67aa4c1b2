package repositories

import (
	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *models.Booking) error
	FindByID(db *gorm.DB, id string) (*models.Booking, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Booking, error)
	UpdateStatus(db *gorm.DB, id string, status models.BookingStatus) error
	Reschedule(db *gorm.DB, id, date, timeOfDay string) error
	Delete(db *gorm.DB, id string) error
	SlotTaken(db *gorm.DB, propertyID, date, timeOfDay, excludeID string) (bool, error)
	HasBooking(db *gorm.DB, studentID, propertyID string, statuses ...models.BookingStatus) (bool, error)
	List(db *gorm.DB, criteria BookingCriteria) ([]models.Booking, int64, error)
}

type BookingCriteria struct {
	UserID  string               `form:"-"`
	AgentID string               `form:"-"`
	Status  models.BookingStatus `form:"status"`
	Pagination
}

// активные брони занимают слот
var slotHoldingStatuses = []models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}

type BookingRepositoryImpl struct{}

func NewBookingRepository() BookingRepository {
	return &BookingRepositoryImpl{}
}

func (r *BookingRepositoryImpl) Create(db *gorm.DB, booking *models.Booking) error {
	return db.Omit("Property").Create(booking).Error
}

func (r *BookingRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Booking, error) {
	var b models.Booking
	if err := db.Preload("Property").First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Booking, error) {
	var b models.Booking
	if err := forUpdate(db).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.BookingStatus) error {
	result := db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepositoryImpl) Reschedule(db *gorm.DB, id, date, timeOfDay string) error {
	result := db.Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"booking_date": date,
		"booking_time": timeOfDay,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Booking{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// SlotTaken проверяет активную бронь на тот же объект, дату и время.
// Строки блокируются, чтобы параллельная бронь ждала коммита.
func (r *BookingRepositoryImpl) SlotTaken(db *gorm.DB, propertyID, date, timeOfDay, excludeID string) (bool, error) {
	query := forUpdate(db).Model(&models.Booking{}).
		Where("property_id = ? AND booking_date = ? AND booking_time = ? AND status IN ?",
			propertyID, date, timeOfDay, slotHoldingStatuses)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var ids []string
	if err := query.Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *BookingRepositoryImpl) HasBooking(db *gorm.DB, studentID, propertyID string, statuses ...models.BookingStatus) (bool, error) {
	query := db.Model(&models.Booking{}).Where("user_id = ? AND property_id = ?", studentID, propertyID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingRepositoryImpl) List(db *gorm.DB, c BookingCriteria) ([]models.Booking, int64, error) {
	query := db.Model(&models.Booking{})
	if c.UserID != "" {
		query = query.Where("user_id = ?", c.UserID)
	}
	if c.AgentID != "" {
		query = query.Where("agent_id = ?", c.AgentID)
	}
	if c.Status != "" {
		query = query.Where("status = ?", c.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Booking
	err := query.Preload("Property").
		Order("booking_date DESC, booking_time DESC").
		Scopes(paginate(c.Pagination)).
		Find(&list).Error
	return list, total, err
}
