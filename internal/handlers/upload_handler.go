package handlers

import (
	"net/http"

	"rentease_backend/internal/logger"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"
	"rentease_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

// RegisterRoutes - кто может писать в бакет, проверяет сервис
func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	uploads := r.Group("/uploads")
	uploads.Use(h.Auth())
	{
		uploads.POST("/:bucket", h.Upload)
		uploads.GET("/link", h.Link)
		uploads.DELETE("", h.Delete)
	}
}

// Upload принимает multipart поле "file"
func (h *UploadHandler) Upload(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.FieldError("file", "File is required"))
		return
	}

	resp, err := h.uploadService.Upload(c.Request.Context(), session, c.Param("bucket"), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "File uploaded", "bucket", resp.Bucket, "path", resp.Path, "size", resp.Size)
	c.JSON(http.StatusCreated, resp)
}

// Link - GET /uploads/link?path=...
func (h *UploadHandler) Link(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}
	var req dto.FileLinkRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.uploadService.Link(c.Request.Context(), session, req.Path)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete - DELETE /uploads?path=...
func (h *UploadHandler) Delete(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}
	var req dto.FileLinkRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), session, req.Path); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
