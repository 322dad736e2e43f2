package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/events"
	"github.com/crowdinfra/crowdinfra-api/internal/repository"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

var contactNumberPattern = regexp.MustCompile(`^\d{10}$`)

// PropertyService manages property listings.
type PropertyService struct {
	properties repository.PropertyRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PropertyCreateInput describes a new listing.
type PropertyCreateInput struct {
	Title         string
	Description   string
	Category      domain.PropertyCategory
	ListingType   domain.PropertyListingType
	Price         decimal.Decimal
	Area          decimal.Decimal
	ContactNumber string
	Coordinates   []float64
	Status        domain.PropertyStatus
}

// NewPropertyService constructs the service. dispatcher may be nil.
func NewPropertyService(properties repository.PropertyRepository, dispatcher events.Dispatcher, logger *zap.Logger) *PropertyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyService{properties: properties, dispatcher: dispatcher, logger: logger}
}

// Create validates and stores a listing.
func (s *PropertyService) Create(ctx context.Context, input PropertyCreateInput) (*domain.Property, error) {
	location, err := parseLocation(input.Coordinates)
	if err != nil {
		return nil, err
	}
	if err := validatePropertyInput(input); err != nil {
		return nil, err
	}

	property := &domain.Property{
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Category:      input.Category,
		ListingType:   input.ListingType,
		Price:         input.Price,
		Area:          input.Area,
		ContactNumber: input.ContactNumber,
		Location:      location,
		Status:        input.Status,
	}
	if err := s.properties.Create(ctx, property); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventPropertyCreated,
		ResourceID: property.ID,
		Payload: events.PropertyCreatedPayload{
			Title:       property.Title,
			ListingType: string(property.ListingType),
		},
	})
	return property, nil
}

// GetAll returns every listing, newest first.
func (s *PropertyService) GetAll(ctx context.Context) ([]domain.Property, error) {
	properties, err := s.properties.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return properties, nil
}

// GetByID returns one listing.
func (s *PropertyService) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	if !isUUID(id) {
		return nil, apperrors.NewNotFound("Property", nil)
	}
	property, err := s.properties.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Property", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return property, nil
}

func validatePropertyInput(input PropertyCreateInput) error {
	fields := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "required"
	}
	switch input.Category {
	case domain.PropertyCategoryResidential, domain.PropertyCategoryCommercial,
		domain.PropertyCategoryIndustrial, domain.PropertyCategoryLand:
	default:
		fields["category"] = "must be one of residential, commercial, industrial, land"
	}
	switch input.ListingType {
	case domain.PropertyListingSell, domain.PropertyListingRent, domain.PropertyListingLease:
	default:
		fields["type"] = "must be one of sell, rent, lease"
	}
	if input.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if input.Area.LessThan(decimal.NewFromInt(1)) {
		fields["area"] = "must be at least 1"
	}
	if !contactNumberPattern.MatchString(input.ContactNumber) {
		fields["contactNumber"] = "must be a 10-digit number"
	}
	switch input.Status {
	case domain.PropertyStatusRented, domain.PropertyStatusSold,
		domain.PropertyStatusUpForRenting, domain.PropertyStatusAvailable:
	default:
		fields["status"] = "must be one of rented, sold, up_for_renting, available"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid property", fields)
	}
	return nil
}
