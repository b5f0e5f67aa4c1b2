package handlers

import (
	"net/http"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/middleware"
	"rentease_backend/internal/models"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler:     base,
		propertyService: propertyService,
	}
}

func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Публичный каталог: только одобренные объявления
	public := r.Group("/properties")
	{
		public.GET("", h.ListApproved)
		public.GET("/:id", h.OptionalAuth(), h.Get)
		public.POST("/:id/contact", h.Auth(), middleware.RequireRoles(models.UserRoleStudent), h.RequestContact)
		public.POST("/:id/save", h.Auth(), middleware.RequireRoles(models.UserRoleStudent), h.Save)
		public.DELETE("/:id/save", h.Auth(), middleware.RequireRoles(models.UserRoleStudent), h.Unsave)
	}

	saved := r.Group("/saved-properties")
	saved.Use(h.Auth(), middleware.RequireRoles(models.UserRoleStudent))
	{
		saved.GET("", h.ListSaved)
	}

	agent := r.Group("/agent/properties")
	agent.Use(h.Auth(), middleware.RequirePermission(auth.PermPropertiesWrite))
	{
		agent.POST("", h.Create)
		agent.GET("", h.ListMine)
		agent.PUT("/:id", h.Update)
		agent.DELETE("/:id", h.Delete)
	}

	admin := r.Group("/admin/properties")
	admin.Use(h.Auth(), middleware.RequirePermission(auth.PermPropertiesModerate))
	{
		admin.PUT("/:id/approve", h.Approve)
		admin.PUT("/:id/reject", h.Reject)
	}
}

// --- Public ---

func (h *PropertyHandler) ListApproved(c *gin.Context) {
	var req dto.PropertySearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.propertyService.ListApproved(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get - анонимный запрос видит только одобренные объявления
func (h *PropertyHandler) Get(c *gin.Context) {
	session, _ := middleware.GetSession(c)

	property, err := h.propertyService.Get(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// --- Student ---

func (h *PropertyHandler) RequestContact(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	contact, err := h.propertyService.RequestContact(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

func (h *PropertyHandler) Save(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	if err := h.propertyService.Save(h.GetDB(c), session, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property saved"})
}

func (h *PropertyHandler) Unsave(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	if err := h.propertyService.Unsave(h.GetDB(c), session, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) ListSaved(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	resp, err := h.propertyService.ListSaved(h.GetDB(c), session, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// --- Agent ---

func (h *PropertyHandler) Create(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.Create(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) ListMine(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.PropertySearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.propertyService.ListMine(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.UpdatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.Update(h.GetDB(c), session, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(h.GetDB(c), session, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Admin ---

func (h *PropertyHandler) Approve(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	property, err := h.propertyService.Approve(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) Reject(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.ReasonRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.Reject(h.GetDB(c), session, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}
