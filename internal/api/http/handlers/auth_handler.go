package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/crowdinfra/crowdinfra-api/internal/api/dto"
	"github.com/crowdinfra/crowdinfra-api/internal/auth"
	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/service"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

// AuthHandler exposes account endpoints under /api/auth.
type AuthHandler struct {
	auth         *service.AuthService
	middleware   *auth.AuthMiddleware
	cookieName   string
	secureCookie bool
}

// NewAuthHandler constructs handler. secureCookie marks the session cookie Secure.
func NewAuthHandler(authService *service.AuthService, middleware *auth.AuthMiddleware, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, middleware: middleware, cookieName: cookieName, secureCookie: secureCookie}
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	session, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Gender:   req.Gender,
	})
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	return c.Status(http.StatusCreated).JSON(authResponse(session))
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	return c.JSON(authResponse(session))
}

// Verify handles GET /verify; it never fails with the error envelope so
// browsers can probe the session cheaply.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	principal, err := h.middleware.Authenticate(c)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"valid": false,
			"msg":   apperrors.ToDomainError(err).Message,
		})
	}
	return c.JSON(fiber.Map{
		"valid": true,
		"user":  fiber.Map{"id": principal.UserID, "email": principal.Email},
	})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	c.ClearCookie(h.cookieName)
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}
	user, err := h.auth.Me(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": userResponse(user)})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Gender:    u.Gender,
		Role:      int(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func authResponse(session *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		User:      userResponse(session.User),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
