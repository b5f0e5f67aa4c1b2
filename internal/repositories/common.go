package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrVerificationNotFound = errors.New("verification not found")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrSharedRentalNotFound = errors.New("shared rental not found")
	ErrDuplicate            = errors.New("duplicate record")
)

// Pagination - параметры постраничной выборки
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (p Pagination) normalized() Pagination {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.normalized()
	return (n.Page - 1) * n.PageSize
}

func (p Pagination) Limit() int {
	return p.normalized().PageSize
}

func paginate(p Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit())
	}
}

// forUpdate - SELECT ... FOR UPDATE внутри транзакции
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// notFound переводит gorm.ErrRecordNotFound в доменную ошибку
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// isUniqueViolation - postgres 23505 (pgx отдает текст с кодом SQLSTATE)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key")
}

func createUnique(db *gorm.DB, value interface{}) error {
	if err := db.Create(value).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
