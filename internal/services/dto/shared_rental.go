package dto

type CreateSharedRentalRequest struct {
	PropertyID    string  `json:"property_id" validate:"required,uuid"`
	Title         string  `json:"title" validate:"required,notblank,max=200"`
	Description   string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	MonthlyShare  float64 `json:"monthly_share" validate:"required,gt=0"`
	AvailableFrom string  `json:"available_from" validate:"required,datetime=2006-01-02"`
}

type ExpressInterestRequest struct {
	Message string `json:"message,omitempty" validate:"omitempty,max=1000"`
}
