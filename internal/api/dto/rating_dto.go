package dto

import "time"

// SubmitRatingRequest payload.
type SubmitRatingRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required"`
}

// RatingResponse represents a stored review.
type RatingResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
