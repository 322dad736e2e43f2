package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/crowdinfra/crowdinfra-api/pkg/util/errorutil"
)

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) Revoke(_ context.Context, id string, _ time.Time) error {
	f.revoked[id] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return f.revoked[id], f.err
}

func newTestApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
	app.Get("/me", m.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return errors.New("principal missing")
		}
		return c.SendString(p.UserID)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	token, _, err := tm.GenerateToken("u1", "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	revokedToken, _, err := tm.GenerateToken("u2", "b@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := tm.ParseToken(revokedToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	store := &fakeRevocations{revoked: map[string]bool{claims.ID: true}}
	app := newTestApp(NewAuthMiddleware(tm, store, "crowdInfra_token", zap.NewNop()))

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "bearer", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "cookie", cookie: token, wantStatus: http.StatusOK, wantBody: "u1"},
		{name: "revoked", header: "Bearer " + revokedToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "crowdInfra_token", Value: tt.cookie})
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestAuthMiddlewareToleratesRevocationOutage(t *testing.T) {
	tm := NewTokenManager("secret", 30)
	token, _, err := tm.GenerateToken("u1", "a@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	store := &fakeRevocations{revoked: map[string]bool{}, err: errors.New("redis down")}
	app := newTestApp(NewAuthMiddleware(tm, store, "crowdInfra_token", zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
