package models

import "time"

// SharedRental - студент ищет соседа для уже одобренного объекта
type SharedRental struct {
	BaseModel
	OwnerID       string             `gorm:"type:uuid;not null;index" json:"owner_id"`
	PropertyID    string             `gorm:"type:uuid;not null;index" json:"property_id"`
	Title         string             `gorm:"not null" json:"title"`
	Description   string             `json:"description"`
	MonthlyShare  float64            `gorm:"not null" json:"monthly_share"`
	AvailableFrom time.Time          `gorm:"type:date" json:"available_from"`
	Status        SharedRentalStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

type SharedRentalInterest struct {
	BaseModel
	SharedRentalID string `gorm:"type:uuid;not null;uniqueIndex:idx_interest_rental_student" json:"shared_rental_id"`
	StudentID      string `gorm:"type:uuid;not null;uniqueIndex:idx_interest_rental_student" json:"student_id"`
	Message        string `json:"message,omitempty"`
}
