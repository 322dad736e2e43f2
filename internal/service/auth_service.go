package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crowdinfra/crowdinfra-api/internal/auth"
	"github.com/crowdinfra/crowdinfra-api/internal/config"
	"github.com/crowdinfra/crowdinfra-api/internal/domain"
	"github.com/crowdinfra/crowdinfra-api/internal/repository"
	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

// AuthService coordinates signup, login and logout.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoked    auth.RevocationStore
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
// Revocations may be nil, in which case logout only clears the cookie.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Tokens      *auth.TokenManager
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// SignupInput describes a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Gender   string
}

// Session is an issued access token.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes)
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokens,
		revoked:    deps.Revocations,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Signup creates an account and signs the caller in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("User already exists", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		Gender:       input.Gender,
		Role:         domain.UserRoleCitizen,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("User already exists", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.issue(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("Invalid credentials")
	}
	return s.issue(user)
}

// Logout revokes the caller's token until it expires.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if s.revoked == nil || principal == nil || principal.TokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, principal.TokenID, time.Unix(principal.ExpiresAt, 0)); err != nil {
		s.logger.Warn("token revocation failed", zap.String("user_id", principal.UserID), zap.Error(err))
	}
	return nil
}

// Me loads the caller's account.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if !isUUID(userID) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
