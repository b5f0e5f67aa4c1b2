package dto

import (
	"time"

	"rentease_backend/internal/models"
)

// RegisterRequest - запрос регистрации (студент или агент)
type RegisterRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8,max=72"`
	FullName  string          `json:"full_name" validate:"required,notblank,max=120"`
	Role      models.UserRole `json:"role" validate:"required,is-signup-role"`
	Phone     string          `json:"phone,omitempty" validate:"omitempty,max=30"`
	StudentID *string         `json:"student_id,omitempty" validate:"omitempty,max=50"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse - ответ с токеном
type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Profile     *ProfileResponse `json:"profile"`
}
