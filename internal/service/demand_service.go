package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/events"
	"github.com/crowdinfra/crowdinfra-api/internal/repository"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

// InvalidLocationMessage is reported when coordinates are not a [longitude, latitude] pair.
const InvalidLocationMessage = "Invalid location. Provide [longitude, latitude]."

// DemandCache is the read-through cache consulted by DemandService.
// Writes evict the entry; only reads fill it.
type DemandCache interface {
	Get(ctx context.Context, id string) (*domain.Demand, bool, error)
	Set(ctx context.Context, demand *domain.Demand) error
	Delete(ctx context.Context, id string) error
}

// DemandService coordinates the demand lifecycle: creation, lookup,
// proximity search, upvote toggling and comments.
type DemandService struct {
	demands       repository.DemandRepository
	cache         DemandCache
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	defaultRadius float64
}

// DemandDependencies bundles collaborators for the demand service.
// Cache and Dispatcher may be nil.
type DemandDependencies struct {
	DemandRepo          repository.DemandRepository
	Cache               DemandCache
	Dispatcher          events.Dispatcher
	Logger              *zap.Logger
	DefaultRadiusMeters float64
}

// DemandCreateInput describes a new demand.
type DemandCreateInput struct {
	CreatorID   *string
	Title       string
	Description string
	Coordinates []float64
	Category    domain.DemandCategory
	Status      domain.DemandStatus
}

// NearbyQuery locates demands around a point. Nil coordinates are rejected;
// a nil radius falls back to the configured default.
type NearbyQuery struct {
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *float64
}

// NewDemandService constructs the service.
func NewDemandService(deps DemandDependencies) *DemandService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	radius := deps.DefaultRadiusMeters
	if radius <= 0 {
		radius = 5000
	}
	return &DemandService{
		demands:       deps.DemandRepo,
		cache:         deps.Cache,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		defaultRadius: radius,
	}
}

// Create validates input and stores a new demand with its initial vote count.
func (s *DemandService) Create(ctx context.Context, input DemandCreateInput) (*domain.Demand, error) {
	location, err := parseLocation(input.Coordinates)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}
	status := input.Status
	if status == "" {
		status = domain.DemandStatusNotFulfilled
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	creator, err := normalizeCreator(input.CreatorID)
	if err != nil {
		return nil, err
	}

	demand := &domain.Demand{
		CreatorID:   creator,
		Title:       title,
		Description: description,
		Location:    location,
		Category:    input.Category,
		Status:      status,
		UpVoteCount: domain.InitialUpVoteCount,
		Voters:      []string{},
		Comments:    []domain.DemandComment{},
	}
	if err := s.demands.Create(ctx, demand); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.remember(ctx, demand)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventDemandCreated,
		ResourceID: demand.ID,
		ActorID:    demand.CreatorID,
		Payload: events.DemandCreatedPayload{
			Title:     demand.Title,
			Category:  string(demand.Category),
			Longitude: demand.Location.Longitude(),
			Latitude:  demand.Location.Latitude(),
		},
	})
	return demand, nil
}

// GetAll returns every demand, newest first.
func (s *DemandService) GetAll(ctx context.Context) ([]domain.Demand, error) {
	demands, err := s.demands.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return demands, nil
}

// GetByID returns a single demand, consulting the cache first.
func (s *DemandService) GetByID(ctx context.Context, id string) (*domain.Demand, error) {
	if !isUUID(id) {
		return nil, demandNotFound()
	}
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("demand cache read failed", zap.String("demand_id", id), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}
	demand, err := s.demands.GetByID(ctx, id)
	if err != nil {
		return nil, translateDemandError(err)
	}
	s.remember(ctx, demand)
	return demand, nil
}

// FindNear returns demands within the query radius, nearest first.
func (s *DemandService) FindNear(ctx context.Context, query NearbyQuery) ([]domain.Demand, error) {
	if query.Latitude == nil || query.Longitude == nil {
		return nil, apperrors.NewValidationError("Latitude and longitude are required.", nil)
	}
	center := domain.PointAt(*query.Longitude, *query.Latitude)
	if err := center.ValidateRange(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	radius := s.defaultRadius
	if query.RadiusMeters != nil {
		radius = *query.RadiusMeters
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return nil, apperrors.NewValidationError("radius must be a positive number of meters", nil)
	}
	demands, err := s.demands.FindNear(ctx, center, radius)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return demands, nil
}

// ToggleUpvote adds the user's vote when absent and removes it otherwise.
func (s *DemandService) ToggleUpvote(ctx context.Context, demandID, userID string) (*domain.Demand, error) {
	if !isUUID(demandID) {
		return nil, demandNotFound()
	}
	if !isUUID(userID) {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	demand, voted, err := s.demands.ToggleUpvote(ctx, demandID, userID)
	if err != nil {
		return nil, translateDemandError(err)
	}
	s.forget(ctx, demand.ID)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventDemandUpvoteToggled,
		ResourceID: demand.ID,
		ActorID:    &userID,
		Payload: events.DemandUpvoteToggledPayload{
			Voted:       voted,
			UpVoteCount: demand.UpVoteCount,
		},
	})
	return demand, nil
}

// AddComment appends a comment by authorID and returns it with the updated demand.
func (s *DemandService) AddComment(ctx context.Context, demandID, authorID, text string) (*domain.DemandComment, *domain.Demand, error) {
	if !isUUID(demandID) {
		return nil, nil, demandNotFound()
	}
	if !isUUID(authorID) {
		return nil, nil, apperrors.NewUnauthorized("unauthorized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, apperrors.NewValidationError("Comment text is required.", nil)
	}
	comment := &domain.DemandComment{
		DemandID: demandID,
		AuthorID: authorID,
		Text:     text,
	}
	demand, err := s.demands.AddComment(ctx, comment)
	if err != nil {
		return nil, nil, translateDemandError(err)
	}
	s.forget(ctx, demand.ID)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventDemandCommentAdded,
		ResourceID: demand.ID,
		ActorID:    &authorID,
		Payload: events.DemandCommentAddedPayload{
			CommentID:   comment.ID,
			TextPreview: stringPreview(comment.Text, 80),
		},
	})
	return comment, demand, nil
}

func (s *DemandService) remember(ctx context.Context, demand *domain.Demand) {
	if s.cache == nil || demand == nil {
		return
	}
	if err := s.cache.Set(ctx, demand); err != nil {
		s.logger.Warn("demand cache write failed", zap.String("demand_id", demand.ID), zap.Error(err))
	}
}

// forget evicts a demand after a write so the next read reloads it from the store.
func (s *DemandService) forget(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("demand cache eviction failed", zap.String("demand_id", id), zap.Error(err))
	}
}

func (s *DemandService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

func parseLocation(coordinates []float64) (domain.GeoPoint, error) {
	location, err := domain.NewGeoPoint(coordinates)
	if err != nil {
		return domain.GeoPoint{}, apperrors.NewValidationError(InvalidLocationMessage, nil)
	}
	if err := location.ValidateRange(); err != nil {
		return domain.GeoPoint{}, apperrors.NewValidationError(InvalidLocationMessage, map[string]any{"reason": err.Error()})
	}
	return location, nil
}

func normalizeCreator(creatorID *string) (*string, error) {
	if creatorID == nil || strings.TrimSpace(*creatorID) == "" {
		return nil, nil
	}
	id := strings.TrimSpace(*creatorID)
	if !isUUID(id) {
		return nil, apperrors.NewValidationError("invalid user id", map[string]any{"user": id})
	}
	return &id, nil
}

func translateDemandError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return demandNotFound()
	}
	return apperrors.NewInternalError(err)
}

func demandNotFound() error {
	return apperrors.NewNotFound("Demand", nil)
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func stringPreview(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}
