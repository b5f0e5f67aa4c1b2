package dto

import "rentease_backend/internal/models"

type CreateReviewRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type ReviewListResponse struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	Total         int64           `json:"total"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
}
