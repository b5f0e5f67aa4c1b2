package auth

import (
	"time"

	"rentease_backend/internal/models"
)

// Session - неизменяемое представление аутентифицированного пользователя.
// Создается один раз в AuthMiddleware и передается по значению.
type Session struct {
	userID    string
	role      models.UserRole
	email     string
	expiresAt time.Time
}

func NewSession(userID string, role models.UserRole, email string, expiresAt time.Time) Session {
	return Session{userID: userID, role: role, email: email, expiresAt: expiresAt}
}

func (s Session) UserID() string        { return s.userID }
func (s Session) Role() models.UserRole { return s.role }
func (s Session) Email() string         { return s.email }
func (s Session) ExpiresAt() time.Time  { return s.expiresAt }
func (s Session) IsZero() bool          { return s.userID == "" }
func (s Session) IsAdmin() bool         { return s.role == models.UserRoleAdmin }
func (s Session) IsAgent() bool         { return s.role == models.UserRoleAgent }
func (s Session) IsStudent() bool       { return s.role == models.UserRoleStudent }
