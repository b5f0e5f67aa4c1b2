package dto

import (
	"time"

	"rentease_backend/internal/models"
)

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,notblank,max=120"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	WhatsApp  *string `json:"whatsapp,omitempty" validate:"omitempty,max=30"`
	StudentID *string `json:"student_id,omitempty" validate:"omitempty,max=50"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,max=500"`
}

type ChangeRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,is-user-role"`
}

type ProfileListRequest struct {
	Role     models.UserRole `form:"role" validate:"omitempty,is-user-role"`
	Search   string          `form:"search" validate:"omitempty,max=100"`
	Page     int             `form:"page" validate:"omitempty,gte=1"`
	PageSize int             `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type ProfileResponse struct {
	ID           string                `json:"id"`
	Email        string                `json:"email"`
	FullName     string                `json:"full_name"`
	Phone        string                `json:"phone,omitempty"`
	WhatsApp     string                `json:"whatsapp,omitempty"`
	Role         models.UserRole       `json:"role"`
	StudentID    *string               `json:"student_id,omitempty"`
	AvatarURL    string                `json:"avatar_url,omitempty"`
	Verification *VerificationResponse `json:"verification,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

func NewProfileResponse(p *models.Profile) *ProfileResponse {
	if p == nil {
		return nil
	}
	resp := &ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Phone:     p.Phone,
		WhatsApp:  p.WhatsApp,
		Role:      p.Role,
		StudentID: p.StudentID,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
	}
	if p.Verification != nil {
		resp.Verification = NewVerificationResponse(p.Verification, time.Now())
	}
	return resp
}
