package handlers

import (
	"net/http"

	"rentease_backend/internal/auth"
	"rentease_backend/internal/middleware"
	"rentease_backend/internal/services"
	"rentease_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SharedRentalHandler struct {
	*BaseHandler
	rentalService services.SharedRentalService
}

func NewSharedRentalHandler(base *BaseHandler, rentalService services.SharedRentalService) *SharedRentalHandler {
	return &SharedRentalHandler{
		BaseHandler:   base,
		rentalService: rentalService,
	}
}

func (h *SharedRentalHandler) RegisterRoutes(r *gin.RouterGroup) {
	rentals := r.Group("/shared-rentals")
	{
		rentals.GET("", h.ListActive)

		student := rentals.Group("")
		student.Use(h.Auth(), middleware.RequirePermission(auth.PermSharedRentalsWrite))
		{
			student.POST("", h.Create)
			student.PUT("/:id/archive", h.Archive)
			student.POST("/:id/interests", h.ExpressInterest)
			student.GET("/:id/interests", h.ListInterests)
		}
	}
}

func (h *SharedRentalHandler) ListActive(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	resp, err := h.rentalService.ListActive(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SharedRentalHandler) Create(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.CreateSharedRentalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	rental, err := h.rentalService.Create(h.GetDB(c), session, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rental)
}

func (h *SharedRentalHandler) Archive(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	if err := h.rentalService.Archive(h.GetDB(c), session, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shared rental archived"})
}

func (h *SharedRentalHandler) ExpressInterest(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	var req dto.ExpressInterestRequest
	if c.Request.ContentLength != 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	interest, err := h.rentalService.ExpressInterest(h.GetDB(c), session, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, interest)
}

func (h *SharedRentalHandler) ListInterests(c *gin.Context) {
	session, ok := h.GetSession(c)
	if !ok {
		return
	}

	interests, err := h.rentalService.ListInterests(h.GetDB(c), session, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"interests": interests})
}
