package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePropertyRequest payload. Price and area accept JSON numbers or numeric strings.
type CreatePropertyRequest struct {
	Title         string           `json:"title" validate:"required"`
	Description   string           `json:"description" validate:"required"`
	Category      string           `json:"category" validate:"required,oneof=residential commercial industrial land"`
	Type          string           `json:"type" validate:"required,oneof=sell rent lease"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	Area          *decimal.Decimal `json:"area" validate:"required"`
	ContactNumber string           `json:"contactNumber" validate:"required,len=10,numeric"`
	Location      *LocationRequest `json:"location"`
	Status        string           `json:"status" validate:"required,oneof=rented sold up_for_renting available"`
}

// Coordinates returns the submitted coordinate array, or nil when no location was sent.
func (r *CreatePropertyRequest) Coordinates() []float64 {
	if r.Location == nil {
		return nil
	}
	return r.Location.Coordinates
}

// PropertyResponse represents a listing.
type PropertyResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Type          string           `json:"type"`
	Price         decimal.Decimal  `json:"price"`
	Area          decimal.Decimal  `json:"area"`
	ContactNumber string           `json:"contactNumber"`
	Location      GeoPointResponse `json:"location"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
