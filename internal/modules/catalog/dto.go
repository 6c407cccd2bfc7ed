package catalog

import "renthaven/internal/domain"

type CreateApartmentRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	Description  string  `json:"description" validate:"max=5000"`
	City         string  `json:"city" validate:"required,min=2,max=100"`
	Address      string  `json:"address" validate:"required,max=300"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=0,lte=20"`
	Furnished    bool    `json:"furnished"`
	MonthlyRent  float64 `json:"monthly_rent" validate:"required,gt=0"`
	DepositPrice float64 `json:"deposit_price" validate:"gte=0"`
}

type UpdateApartmentRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	City         *string  `json:"city" validate:"omitempty,min=2,max=100"`
	Address      *string  `json:"address" validate:"omitempty,max=300"`
	Bedrooms     *int     `json:"bedrooms" validate:"omitempty,gte=0,lte=20"`
	Bathrooms    *int     `json:"bathrooms" validate:"omitempty,gte=0,lte=20"`
	Furnished    *bool    `json:"furnished"`
	MonthlyRent  *float64 `json:"monthly_rent" validate:"omitempty,gt=0"`
	DepositPrice *float64 `json:"deposit_price" validate:"omitempty,gte=0"`
	IsListed     *bool    `json:"is_listed"`
}

type SearchResponse struct {
	Apartments []domain.Apartment `json:"apartments"`
	Pagination Pagination         `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
