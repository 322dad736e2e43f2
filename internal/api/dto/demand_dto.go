package dto

import "time"

// LocationRequest is a GeoJSON point as sent by clients: [longitude, latitude].
type LocationRequest struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// CreateDemandRequest payload.
type CreateDemandRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Location    *LocationRequest `json:"location"`
	Category    string           `json:"category" validate:"required,oneof=infrastructure public_service transportation utilities education healthcare other"`
	Status      string           `json:"status" validate:"omitempty,oneof=fulfilled not_fulfilled"`
	User        *string          `json:"user"`
}

// Coordinates returns the submitted coordinate array, or nil when no location was sent.
func (r *CreateDemandRequest) Coordinates() []float64 {
	if r.Location == nil {
		return nil
	}
	return r.Location.Coordinates
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// GeoPointResponse is a GeoJSON point.
type GeoPointResponse struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// DemandCommentResponse is one comment in a demand's log.
type DemandCommentResponse struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// DemandResponse represents a demand with its votes and comments.
type DemandResponse struct {
	ID          string                  `json:"id"`
	User        *string                 `json:"user"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Location    GeoPointResponse        `json:"location"`
	Category    string                  `json:"category"`
	Status      string                  `json:"status"`
	UpVoteCount int                     `json:"upVoteCount"`
	Voters      []string                `json:"voters"`
	Comments    []DemandCommentResponse `json:"comments"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}
