package models

import "github.com/lib/pq"

// Property - объявление об аренде жилья
type Property struct {
	BaseModel
	AgentProfileID  string         `gorm:"type:uuid;not null;index" json:"agent_profile_id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `json:"description"`
	PropertyType    string         `gorm:"type:varchar(30)" json:"property_type"`
	Address         string         `json:"address"`
	City            string         `gorm:"index" json:"city"`
	Price           float64        `gorm:"not null" json:"price"`
	Bedrooms        int            `json:"bedrooms"`
	Bathrooms       int            `json:"bathrooms"`
	Amenities       pq.StringArray `gorm:"type:text[]" json:"amenities"`
	Images          pq.StringArray `gorm:"type:text[]" json:"images"`
	Status          PropertyStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	ViewsCount      int64          `gorm:"default:0" json:"views_count"`
	ContactClicks   int64          `gorm:"default:0" json:"contact_clicks"`

	Agent *Profile `gorm:"foreignKey:AgentProfileID" json:"agent,omitempty"`
}

// SavedProperty - избранное студента
type SavedProperty struct {
	BaseModel
	ProfileID  string `gorm:"type:uuid;not null;uniqueIndex:idx_saved_profile_property" json:"profile_id"`
	PropertyID string `gorm:"type:uuid;not null;uniqueIndex:idx_saved_profile_property" json:"property_id"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}
