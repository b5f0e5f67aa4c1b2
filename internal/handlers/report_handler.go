package handlers

import (
	"net/http"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/middleware"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewReportHandler(base *BaseHandler, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   base,
		reportService: reportService,
	}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	reports.Use(h.Auth(), middleware.RequirePermission(auth.PermReportsCreate))
	{
		reports.POST("", h.File)
	}

	admin := r.Group("/admin/reports")
	admin.Use(h.Auth(), middleware.RequirePermission(auth.PermReportsResolve))
	{
		admin.GET("", h.List)
		admin.PUT("/:id/resolve", h.Resolve)
	}
}

func (h *ReportHandler) File(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	report, err := h.reportService.File(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) List(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.ReportListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.reportService.List(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) Resolve(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.ResolveReportRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	report, err := h.reportService.Resolve(h.GetDB(c), session, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
