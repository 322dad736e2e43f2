package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/crowdinfra/crowdinfra-api/internal/api/dto"
	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/service"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

// PropertyHandler exposes listings under /api/property.
type PropertyHandler struct {
	service *service.PropertyService
}

// NewPropertyHandler constructs handler.
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: propertyService}
}

// Create POST /property.
func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Coordinates()) != 2 {
		return apperrors.NewValidationError(service.InvalidLocationMessage, nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	property, err := h.service.Create(c.UserContext(), service.PropertyCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      domain.PropertyCategory(req.Category),
		ListingType:   domain.PropertyListingType(req.Type),
		Price:         *req.Price,
		Area:          *req.Area,
		ContactNumber: req.ContactNumber,
		Coordinates:   req.Coordinates(),
		Status:        domain.PropertyStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Property created successfully!",
		"property": propertyResponse(property),
	})
}

// List GET /getProperty.
func (h *PropertyHandler) List(c *fiber.Ctx) error {
	properties, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PropertyResponse, 0, len(properties))
	for i := range properties {
		items = append(items, propertyResponse(&properties[i]))
	}
	return c.JSON(items)
}

// Get GET /getPropertyById/:id.
func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	property, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(propertyResponse(property))
}

func propertyResponse(p *domain.Property) dto.PropertyResponse {
	return dto.PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Category:      string(p.Category),
		Type:          string(p.ListingType),
		Price:         p.Price,
		Area:          p.Area,
		ContactNumber: p.ContactNumber,
		Location:      geoPointResponse(p.Location),
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
