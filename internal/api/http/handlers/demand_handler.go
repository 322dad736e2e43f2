package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/crowdinfra/crowdinfra-api/internal/api/dto"
	"github.com/crowdinfra/crowdinfra-api/internal/auth"
	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/service"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

// DemandHandler exposes the demand lifecycle under /api/demand.
type DemandHandler struct {
	service *service.DemandService
}

// NewDemandHandler constructs handler.
func NewDemandHandler(demandService *service.DemandService) *DemandHandler {
	return &DemandHandler{service: demandService}
}

// Create POST /demand.
func (h *DemandHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDemandRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Coordinates()) != 2 {
		return apperrors.NewValidationError(service.InvalidLocationMessage, nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	demand, err := h.service.Create(c.UserContext(), service.DemandCreateInput{
		CreatorID:   req.User,
		Title:       req.Title,
		Description: req.Description,
		Coordinates: req.Coordinates(),
		Category:    domain.DemandCategory(req.Category),
		Status:      domain.DemandStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Demand created successfully!",
		"demand":  demandResponse(demand),
	})
}

// List GET /getDemand.
func (h *DemandHandler) List(c *fiber.Ctx) error {
	demands, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(demandResponses(demands))
}

// Get GET /getDemandById/:id.
func (h *DemandHandler) Get(c *fiber.Ctx) error {
	demand, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(demandResponse(demand))
}

// Nearby GET /nearby?latitude&longitude&radius.
func (h *DemandHandler) Nearby(c *fiber.Ctx) error {
	lat, err := queryFloat(c, "latitude")
	if err != nil {
		return err
	}
	lng, err := queryFloat(c, "longitude")
	if err != nil {
		return err
	}
	radius, err := queryFloat(c, "radius")
	if err != nil {
		return err
	}

	demands, err := h.service.FindNear(c.UserContext(), service.NearbyQuery{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
	})
	if err != nil {
		return err
	}
	return c.JSON(demandResponses(demands))
}

// ToggleUpvote PATCH /:id/upvote.
func (h *DemandHandler) ToggleUpvote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	demand, err := h.service.ToggleUpvote(c.UserContext(), c.Params("id"), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": demandResponse(demand)})
}

// AddComment POST /:id/comments.
func (h *DemandHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, demand, err := h.service.AddComment(c.UserContext(), c.Params("id"), principal.UserID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"comment": commentResponse(comment),
		"demand":  demandResponse(demand),
	})
}

// queryFloat returns nil when the parameter is absent.
func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid "+key, map[string]any{key: raw})
	}
	return &v, nil
}

func geoPointResponse(p domain.GeoPoint) dto.GeoPointResponse {
	return dto.GeoPointResponse{Type: domain.GeoTypePoint, Coordinates: p.Coordinates}
}

func commentResponse(comment *domain.DemandComment) dto.DemandCommentResponse {
	return dto.DemandCommentResponse{
		ID:        comment.ID,
		Author:    comment.AuthorID,
		Text:      comment.Text,
		Timestamp: comment.Timestamp,
	}
}

func demandResponse(demand *domain.Demand) dto.DemandResponse {
	voters := make([]string, 0, len(demand.Voters))
	voters = append(voters, demand.Voters...)
	comments := make([]dto.DemandCommentResponse, 0, len(demand.Comments))
	for i := range demand.Comments {
		comments = append(comments, commentResponse(&demand.Comments[i]))
	}
	return dto.DemandResponse{
		ID:          demand.ID,
		User:        demand.CreatorID,
		Title:       demand.Title,
		Description: demand.Description,
		Location:    geoPointResponse(demand.Location),
		Category:    string(demand.Category),
		Status:      string(demand.Status),
		UpVoteCount: demand.UpVoteCount,
		Voters:      voters,
		Comments:    comments,
		CreatedAt:   demand.CreatedAt,
		UpdatedAt:   demand.UpdatedAt,
	}
}

func demandResponses(demands []domain.Demand) []dto.DemandResponse {
	items := make([]dto.DemandResponse, 0, len(demands))
	for i := range demands {
		items = append(items, demandResponse(&demands[i]))
	}
	return items
}
