package models

type Review struct {
	BaseModel
	PropertyID string `gorm:"type:uuid;not null;uniqueIndex:idx_review_property_student" json:"property_id"`
	StudentID  string `gorm:"type:uuid;not null;uniqueIndex:idx_review_property_student" json:"student_id"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string `json:"comment,omitempty"`
}
