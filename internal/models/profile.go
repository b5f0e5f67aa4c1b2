package models

// Profile - учетная запись пользователя (студент, агент или администратор)
type Profile struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FullName     string   `gorm:"not null" json:"full_name"`
	Phone        string   `json:"phone,omitempty"`
	WhatsApp     string   `gorm:"column:whatsapp" json:"whatsapp,omitempty"`
	Role         UserRole `gorm:"type:varchar(20);not null;index" json:"role"`
	StudentID    *string  `json:"student_id,omitempty"`
	AvatarURL    string   `json:"avatar_url,omitempty"`

	Verification *AgentVerification `gorm:"foreignKey:ProfileID" json:"verification,omitempty"`
}
