package dto

import "rentease_backend/internal/models"

type CreateReportRequest struct {
	TargetType  models.ReportTargetType `json:"target_type" validate:"required,is-report-target"`
	TargetID    string                  `json:"target_id" validate:"required,uuid"`
	Reason      string                  `json:"reason" validate:"required,notblank,max=200"`
	Description string                  `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// ResolveReportRequest - RejectProperty применяется только к жалобам на объявление
type ResolveReportRequest struct {
	Note           string `json:"note" validate:"required,notblank,max=2000"`
	RejectProperty bool   `json:"reject_property"`
}

type ReportListRequest struct {
	Status     models.ReportStatus     `form:"status" validate:"omitempty,oneof=pending resolved"`
	TargetType models.ReportTargetType `form:"target_type" validate:"omitempty,is-report-target"`
	Page       int                     `form:"page" validate:"omitempty,gte=1"`
	PageSize   int                     `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}
