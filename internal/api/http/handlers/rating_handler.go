package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/crowdinfra/crowdinfra-api/internal/api/dto"
	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/service"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

// RatingHandler exposes site reviews under /api/rating.
type RatingHandler struct {
	service *service.RatingService
}

// NewRatingHandler constructs handler.
func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{service: ratingService}
}

// Submit POST /rating.
func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	rating, created, err := h.service.Submit(c.UserContext(), req.Email, req.Rating, req.Review)
	if err != nil {
		return err
	}
	if created {
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"message": "Review added successfully.",
			"data":    ratingResponse(rating),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Review updated successfully.",
		"data":    ratingResponse(rating),
	})
}

// List GET /reviews.
func (h *RatingHandler) List(c *fiber.Ctx) error {
	ratings, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		items = append(items, ratingResponse(&ratings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func ratingResponse(r *domain.Rating) dto.RatingResponse {
	return dto.RatingResponse{
		ID:        r.ID,
		Email:     r.Email,
		Rating:    r.Rating,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
