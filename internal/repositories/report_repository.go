package repositories

import (
	"rentease_backend/internal/models"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(db *gorm.DB, report *models.Report) error
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Report, error)
	Resolve(db *gorm.DB, report *models.Report) error
	List(db *gorm.DB, criteria ReportCriteria) ([]models.Report, int64, error)
}

type ReportCriteria struct {
	Status     models.ReportStatus     `form:"status"`
	TargetType models.ReportTargetType `form:"target_type"`
	Pagination
}

type ReportRepositoryImpl struct{}

func NewReportRepository() ReportRepository {
	return &ReportRepositoryImpl{}
}

func (r *ReportRepositoryImpl) Create(db *gorm.DB, report *models.Report) error {
	return db.Create(report).Error
}

func (r *ReportRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Report, error) {
	var report models.Report
	if err := forUpdate(db).Where("id = ?", id).First(&report).Error; err != nil {
		return nil, notFound(err, ErrReportNotFound)
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) Resolve(db *gorm.DB, report *models.Report) error {
	result := db.Model(&models.Report{}).Where("id = ?", report.ID).Updates(map[string]interface{}{
		"status":          report.Status,
		"resolution_note": report.ResolutionNote,
		"resolved_by":     report.ResolvedBy,
		"resolved_at":     report.ResolvedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepositoryImpl) List(db *gorm.DB, c ReportCriteria) ([]models.Report, int64, error) {
	query := db.Model(&models.Report{})
	if c.Status != "" {
		query = query.Where("status = ?", c.Status)
	}
	if c.TargetType != "" {
		query = query.Where("target_type = ?", c.TargetType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Report
	err := query.Order("created_at DESC").Scopes(paginate(c.Pagination)).Find(&list).Error
	return list, total, err
}
