package services

import (
	"errors"
	"strings"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/email"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	profileRepo repositories.ProfileRepository
	tokens      *auth.TokenManager
	notifier    Notifier
}

func NewAuthService(
	profileRepo repositories.ProfileRepository,
	tokens *auth.TokenManager,
	notifier Notifier,
) AuthService {
	return &AuthServiceImpl{
		profileRepo: profileRepo,
		tokens:      tokens,
		notifier:    notifier,
	}
}

// Register - регистрация студента или агента.
// У агента нет строки верификации, пока он не отправит документы.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Role != models.UserRoleStudent && req.Role != models.UserRoleAgent {
		return nil, apperrors.ErrInvalidUserRole
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.FieldError("password", err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	profile := &models.Profile{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        req.Phone,
		Role:         req.Role,
	}
	if req.Role == models.UserRoleStudent {
		profile.StudentID = req.StudentID
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.profileRepo.FindByEmail(tx, profile.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if err := s.profileRepo.Create(tx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.notifier.QueueEmail(tx, EmailNotice{
		Template: email.TemplateWelcome,
		To:       profile.Email,
		Variables: map[string]string{
			"name": profile.FullName,
			"link": s.notifier.Link("/dashboard"),
		},
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("Profile registered", "user_id", profile.ID, "role", profile.Role)
	return s.issue(profile)
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	profile, err := s.profileRepo.FindByEmail(db, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if !auth.CheckPasswordHash(req.Password, profile.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(profile)
}

func (s *AuthServiceImpl) issue(profile *models.Profile) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(profile)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Profile:     dto.NewProfileResponse(profile),
	}, nil
}
