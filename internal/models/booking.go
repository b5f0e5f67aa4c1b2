package models

// Booking - запись студента на просмотр объекта
type Booking struct {
	BaseModel
	PropertyID  string        `gorm:"type:uuid;not null;index" json:"property_id"`
	UserID      string        `gorm:"type:uuid;not null;index" json:"user_id"`
	AgentID     string        `gorm:"type:uuid;not null;index" json:"agent_id"`
	BookingDate string        `gorm:"type:date;not null" json:"booking_date"` // YYYY-MM-DD
	BookingTime string        `gorm:"type:varchar(5);not null" json:"booking_time"` // HH:MM
	Notes       string        `json:"notes,omitempty"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}
