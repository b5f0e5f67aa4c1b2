package handlers

import (
	"net/http"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/middleware"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
	}
}

// RegisterRoutes - все маршруты требуют JWT; кто из участников может
// выполнить действие, решает сервис по таблице переходов
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(h.Auth())
	{
		bookings.POST("", middleware.RequirePermission(auth.PermBookingsCreate), h.Create)
		bookings.GET("", h.ListMine)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id/confirm", h.Confirm)
		bookings.PUT("/:id/decline", h.Decline)
		bookings.PUT("/:id/reschedule", h.Reschedule)
		bookings.PUT("/:id/complete", h.Complete)
		bookings.PUT("/:id/cancel", h.Cancel)
		bookings.DELETE("/:id", h.Delete)
	}
}

func (h *BookingHandler) Create(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Create(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.BookingListRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	resp, err := h.bookingService.ListMine(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) Get(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.simpleTransition(c, h.bookingService.Confirm)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.simpleTransition(c, h.bookingService.Complete)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.simpleTransition(c, h.bookingService.Cancel)
}

// Decline - тело с причиной необязательно
func (h *BookingHandler) Decline(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.DeclineBookingRequest
	if c.Request.ContentLength != 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Decline(h.GetDB(c), session, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.RescheduleBookingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Reschedule(h.GetDB(c), session, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	if err := h.bookingService.Delete(h.GetDB(c), session, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type bookingAction func(db *gorm.DB, actor auth.Session, id string) (*dto.BookingResponse, error)

func (h *BookingHandler) simpleTransition(c *gin.Context, action bookingAction) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	booking, err := action(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
