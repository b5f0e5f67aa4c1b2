package handlers

import (
	"net/http"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/middleware"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	*BaseHandler
	emailService services.EmailService
	apiKey       string
}

func NewEmailHandler(base *BaseHandler, emailService services.EmailService, apiKey string) *EmailHandler {
	return &EmailHandler{
		BaseHandler:  base,
		emailService: emailService,
		apiKey:       apiKey,
	}
}

// RegisterRoutes - нужен и JWT администратора, и X-API-Key
func (h *EmailHandler) RegisterRoutes(r *gin.RouterGroup) {
	emails := r.Group("/admin/emails")
	emails.Use(middleware.RequireAPIKey(h.apiKey), h.Auth(), middleware.RequirePermission(auth.PermEmailsSend))
	{
		emails.POST("", h.Send)
	}
}

func (h *EmailHandler) Send(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.SendEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.emailService.Enqueue(h.GetDB(c), session, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "Email queued"})
}
