package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/events"
	"github.com/crowdinfra/crowdinfra-api/internal/repository"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

// RatingService records site reviews, one per email.
type RatingService struct {
	ratings    repository.RatingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRatingService constructs the service. dispatcher may be nil.
func NewRatingService(ratings repository.RatingRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{ratings: ratings, dispatcher: dispatcher, logger: logger}
}

// Submit inserts or replaces the review for email. created reports whether
// this was the first review from that address.
func (s *RatingService) Submit(ctx context.Context, email string, rating int, review string) (*domain.Rating, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	review = strings.TrimSpace(review)
	if email == "" || review == "" || rating == 0 {
		return nil, false, apperrors.NewValidationError("All fields are required.", nil)
	}
	if rating < 1 || rating > 5 {
		return nil, false, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	record := &domain.Rating{Email: email, Rating: rating, Review: review}
	created, err := s.ratings.Upsert(ctx, record)
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventRatingSubmitted,
		ResourceID: record.ID,
		Payload:    events.RatingSubmittedPayload{Rating: record.Rating, Created: created},
	})
	return record, created, nil
}

// List returns every review, newest first.
func (s *RatingService) List(ctx context.Context) ([]domain.Rating, error) {
	ratings, err := s.ratings.ListNewestFirst(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return ratings, nil
}
