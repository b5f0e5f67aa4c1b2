package handlers

import (
	"net/http"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/middleware"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	me := r.Group("/profile")
	me.Use(h.Auth())
	{
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
	}

	admin := r.Group("/admin/users")
	admin.Use(h.Auth(), middleware.RequirePermission(auth.PermUsersManage))
	{
		admin.GET("", h.ListProfiles)
		admin.PUT("/:id/role", h.ChangeRole)
		admin.DELETE("/:id", h.DeleteProfile)
	}
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMe(h.GetDB(c), session)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateMe(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// --- Admin ---

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var req dto.ProfileListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.profileService.ListProfiles(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) ChangeRole(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.profileService.ChangeRole(h.GetDB(c), session, c.Param("id"), req.Role); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	if err := h.profileService.DeleteProfile(h.GetDB(c), session, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
