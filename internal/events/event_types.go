package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDemandCreated       EventType = "demand_created"
	EventDemandUpvoteToggled EventType = "demand_upvote_toggled"
	EventDemandCommentAdded  EventType = "demand_comment_added"
	EventPropertyCreated     EventType = "property_created"
	EventRatingSubmitted     EventType = "rating_submitted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorID    *string     `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// DemandCreatedPayload payload.
type DemandCreatedPayload struct {
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// DemandUpvoteToggledPayload payload.
type DemandUpvoteToggledPayload struct {
	Voted       bool `json:"voted"`
	UpVoteCount int  `json:"up_vote_count"`
}

// DemandCommentAddedPayload payload.
type DemandCommentAddedPayload struct {
	CommentID   int64  `json:"comment_id"`
	TextPreview string `json:"text_preview"`
}

// PropertyCreatedPayload payload.
type PropertyCreatedPayload struct {
	Title       string `json:"title"`
	ListingType string `json:"listing_type"`
}

// RatingSubmittedPayload payload.
type RatingSubmittedPayload struct {
	Rating  int  `json:"rating"`
	Created bool `json:"created"`
}
