package dto

import (
	"time"

	"rentease_backend/internal/models"
)

type CreatePropertyRequest struct {
	Title        string   `json:"title" validate:"required,notblank,max=200"`
	Description  string   `json:"description" validate:"omitempty,max=5000"`
	PropertyType string   `json:"property_type" validate:"required,oneof=apartment house room studio hostel"`
	Address      string   `json:"address" validate:"required,max=300"`
	City         string   `json:"city" validate:"required,max=100"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms    int      `json:"bathrooms" validate:"gte=0,lte=50"`
	Amenities    []string `json:"amenities" validate:"omitempty,max=50,dive,max=100"`
	Images       []string `json:"images" validate:"omitempty,max=30,dive,max=500"`
}

type UpdatePropertyRequest struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PropertyType *string  `json:"property_type,omitempty" validate:"omitempty,oneof=apartment house room studio hostel"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=300"`
	City         *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Bedrooms     *int     `json:"bedrooms,omitempty" validate:"omitempty,gte=0,lte=50"`
	Bathrooms    *int     `json:"bathrooms,omitempty" validate:"omitempty,gte=0,lte=50"`
	Amenities    []string `json:"amenities,omitempty" validate:"omitempty,max=50,dive,max=100"`
	Images       []string `json:"images,omitempty" validate:"omitempty,max=30,dive,max=500"`
}

type PropertySearchRequest struct {
	City         string  `form:"city" validate:"omitempty,max=100"`
	PropertyType string  `form:"property_type" validate:"omitempty,max=30"`
	MinPrice     float64 `form:"min_price" validate:"omitempty,gte=0"`
	MaxPrice     float64 `form:"max_price" validate:"omitempty,gte=0"`
	Bedrooms     int     `form:"bedrooms" validate:"omitempty,gte=0"`
	Page         int     `form:"page" validate:"omitempty,gte=1"`
	PageSize     int     `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

type PropertyResponse struct {
	ID              string                `json:"id"`
	AgentProfileID  string                `json:"agent_profile_id"`
	AgentName       string                `json:"agent_name,omitempty"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	PropertyType    string                `json:"property_type"`
	Address         string                `json:"address"`
	City            string                `json:"city"`
	Price           float64               `json:"price"`
	Bedrooms        int                   `json:"bedrooms"`
	Bathrooms       int                   `json:"bathrooms"`
	Amenities       []string              `json:"amenities"`
	Images          []string              `json:"images"`
	Status          models.PropertyStatus `json:"status"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	ViewsCount      int64                 `json:"views_count"`
	ContactClicks   int64                 `json:"contact_clicks"`
	CreatedAt       time.Time             `json:"created_at"`
}

func NewPropertyResponse(p *models.Property) *PropertyResponse {
	resp := &PropertyResponse{
		ID:              p.ID,
		AgentProfileID:  p.AgentProfileID,
		Title:           p.Title,
		Description:     p.Description,
		PropertyType:    p.PropertyType,
		Address:         p.Address,
		City:            p.City,
		Price:           p.Price,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		Amenities:       []string(p.Amenities),
		Images:          []string(p.Images),
		Status:          p.Status,
		RejectionReason: p.RejectionReason,
		ViewsCount:      p.ViewsCount,
		ContactClicks:   p.ContactClicks,
		CreatedAt:       p.CreatedAt,
	}
	if p.Agent != nil {
		resp.AgentName = p.Agent.FullName
	}
	return resp
}

// ContactResponse - контакты агента, открываются только после брони
type ContactResponse struct {
	AgentName string `json:"agent_name"`
	Phone     string `json:"phone,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Email     string `json:"email"`
}
