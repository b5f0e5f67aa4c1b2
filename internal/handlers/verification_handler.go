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

type VerificationHandler struct {
	*BaseHandler
	verificationService services.VerificationService
}

func NewVerificationHandler(base *BaseHandler, verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		BaseHandler:         base,
		verificationService: verificationService,
	}
}

func (h *VerificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	agent := r.Group("/agent/verification")
	agent.Use(h.Auth(), middleware.RequireRoles(models.UserRoleAgent))
	{
		agent.POST("", h.Submit)
		agent.GET("", h.GetMine)
	}

	admin := r.Group("/admin/verifications")
	admin.Use(h.Auth(), middleware.RequirePermission(auth.PermAgentsVerify))
	{
		admin.GET("", h.List)
		admin.PUT("/:id/approve", h.Approve)
		admin.PUT("/:id/reject", h.Reject)
		admin.PUT("/:id/suspend", h.Suspend)
		admin.PUT("/:id/lift-suspension", h.LiftSuspension)
		admin.PUT("/:id/revoke", h.Revoke)
	}
}

func (h *VerificationHandler) Submit(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.SubmitVerificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.verificationService.Submit(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) GetMine(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	resp, err := h.verificationService.GetMine(h.GetDB(c), session)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// --- Admin ---

func (h *VerificationHandler) List(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.VerificationListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.verificationService.List(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) Approve(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	resp, err := h.verificationService.Approve(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) Reject(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.ReasonRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.verificationService.Reject(h.GetDB(c), session, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) Suspend(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.SuspendAgentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.verificationService.Suspend(h.GetDB(c), session, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) LiftSuspension(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	resp, err := h.verificationService.LiftSuspension(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) Revoke(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.ReasonRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.verificationService.Revoke(h.GetDB(c), session, c.Param("id"), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
