package services

import (
	"strings"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/logger"
	"rentease_backend/internal/models"
	"rentease_backend/internal/repositories"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProfileService interface {
	GetMe(db *gorm.DB, actor auth.Session) (*dto.ProfileResponse, error)
	UpdateMe(db *gorm.DB, actor auth.Session, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)

	// Admin
	ListProfiles(db *gorm.DB, req *dto.ProfileListRequest) (*dto.PaginatedResponse, error)
	ChangeRole(db *gorm.DB, actor auth.Session, targetID string, role models.UserRole) error
	DeleteProfile(db *gorm.DB, actor auth.Session, targetID string) error
}

type ProfileServiceImpl struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository) ProfileService {
	return &ProfileServiceImpl{profileRepo: profileRepo}
}

func (s *ProfileServiceImpl) GetMe(db *gorm.DB, actor auth.Session) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(db, actor.UserID())
	if err != nil {
		return nil, mapError(err)
	}
	return dto.NewProfileResponse(profile), nil
}

func (s *ProfileServiceImpl) UpdateMe(db *gorm.DB, actor auth.Session, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	profile, err := s.profileRepo.FindByID(tx, actor.UserID())
	if err != nil {
		return nil, mapError(err)
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.WhatsApp != nil {
		profile.WhatsApp = *req.WhatsApp
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	// Студенческий билет есть только у студентов
	if req.StudentID != nil && profile.Role == models.UserRoleStudent {
		profile.StudentID = req.StudentID
	}

	if err := s.profileRepo.Update(tx, profile); err != nil {
		return nil, mapError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewProfileResponse(profile), nil
}

func (s *ProfileServiceImpl) ListProfiles(db *gorm.DB, req *dto.ProfileListRequest) (*dto.PaginatedResponse, error) {
	criteria := repositories.ProfileCriteria{
		Role:       req.Role,
		Search:     req.Search,
		Pagination: repositories.Pagination{Page: req.Page, PageSize: req.PageSize},
	}
	profiles, total, err := s.profileRepo.List(db, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		items = append(items, dto.NewProfileResponse(&profiles[i]))
	}
	return dto.NewPaginatedResponse(items, total, req.Page, criteria.Limit()), nil
}

// ChangeRole - смена роли администратором. Понизить последнего администратора
// нельзя; проверка выполняется до записи.
func (s *ProfileServiceImpl) ChangeRole(db *gorm.DB, actor auth.Session, targetID string, role models.UserRole) error {
	if !role.Valid() {
		return apperrors.ErrInvalidUserRole
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	target, err := s.profileRepo.FindByID(tx, targetID)
	if err != nil {
		return mapError(err)
	}
	if target.Role == role {
		return nil
	}

	if target.Role == models.UserRoleAdmin {
		if err := s.ensureAnotherAdmin(tx); err != nil {
			return err
		}
	}

	if err := s.profileRepo.UpdateRole(tx, targetID, role); err != nil {
		return mapError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.Info("Profile role changed",
		"target_id", targetID,
		"from", target.Role,
		"to", role,
		"actor_id", actor.UserID(),
	)
	return nil
}

func (s *ProfileServiceImpl) DeleteProfile(db *gorm.DB, actor auth.Session, targetID string) error {
	if targetID == actor.UserID() {
		return apperrors.ErrCannotModifySelf
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	target, err := s.profileRepo.FindByID(tx, targetID)
	if err != nil {
		return mapError(err)
	}
	if target.Role == models.UserRoleAdmin {
		if err := s.ensureAnotherAdmin(tx); err != nil {
			return err
		}
	}

	if err := s.profileRepo.Delete(tx, targetID); err != nil {
		return mapError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.Info("Profile deleted", "target_id", targetID, "actor_id", actor.UserID())
	return nil
}

func (s *ProfileServiceImpl) ensureAnotherAdmin(tx *gorm.DB) error {
	admins, err := s.profileRepo.CountByRoleForUpdate(tx, models.UserRoleAdmin)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if admins <= 1 {
		return apperrors.ErrLastAdmin
	}
	return nil
}
