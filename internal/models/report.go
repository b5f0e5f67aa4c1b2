package models

import "time"

// Report - жалоба на объявление или агента
type Report struct {
	BaseModel
	ReporterID     string           `gorm:"type:uuid;not null;index" json:"reporter_id"`
	TargetType     ReportTargetType `gorm:"type:varchar(20);not null" json:"target_type"`
	TargetID       string           `gorm:"type:uuid;not null;index" json:"target_id"`
	Reason         string           `gorm:"not null" json:"reason"`
	Description    string           `json:"description,omitempty"`
	Status         ReportStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ResolutionNote string           `json:"resolution_note,omitempty"`
	ResolvedBy     *string          `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
}
