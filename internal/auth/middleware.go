package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt int64
}

// AuthMiddleware validates bearer tokens or the session cookie. The identity in
// the token is trusted as-is; no user lookup happens per request.
type AuthMiddleware struct {
	tokens     *TokenManager
	revoked    RevocationStore
	cookieName string
	logger     *zap.Logger
}

// NewAuthMiddleware constructs middleware. revoked may be nil when no revocation store is available.
func NewAuthMiddleware(tokens *TokenManager, revoked RevocationStore, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revoked: revoked, cookieName: cookieName, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.Authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Authenticate resolves the caller from the request without touching locals.
func (m *AuthMiddleware) Authenticate(c *fiber.Ctx) (*Principal, error) {
	tokenStr, err := m.extractToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	if m.revoked != nil && claims.ID != "" {
		revoked, err := m.revoked.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			m.logger.Warn("revocation lookup failed", zap.Error(err))
		} else if revoked {
			return nil, apperrors.NewUnauthorized("token revoked")
		}
	}

	principal := &Principal{UserID: claims.UserID, Email: claims.Email, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return principal, nil
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if m.cookieName != "" {
		if cookie := c.Cookies(m.cookieName); cookie != "" {
			return cookie, nil
		}
	}
	return "", apperrors.NewUnauthorized("missing authorization token")
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
