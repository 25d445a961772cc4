package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/repository"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

type stubResolver struct {
	users map[string]*domain.User
	err   error
}

func (s *stubResolver) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newGateApp(tm *TokenManager, resolver IdentityResolver) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"message": domainErr.Message})
		},
	})
	gate := NewAuthMiddleware(tm, resolver, nil)
	app.Get("/private", gate.Handle, func(c *fiber.Ctx) error {
		principal, err := RequirePrincipal(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"id":      principal.UserID(),
			"email":   principal.User().Email,
			"hasHash": principal.User().PasswordHash != "",
		})
	})
	app.Get("/open", func(c *fiber.Ctx) error {
		_, ok := PrincipalFromContext(c)
		return c.JSON(fiber.Map{"authenticated": ok})
	})
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestAuthMiddleware_Handle(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Name: "Ann", Email: "ann@example.com", PasswordHash: "$2a$04$secret"},
	}}
	app := newGateApp(tm, resolver)

	valid, _, err := tm.Issue("user-1")
	require.NoError(t, err)
	deleted, _, err := tm.Issue("user-gone")
	require.NoError(t, err)

	expiredMgr := NewTokenManager(testSecret, time.Minute)
	expiredMgr.now = fixedClock(time.Now().Add(-time.Hour))
	expired, _, err := expiredMgr.Issue("user-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "no header", wantStatus: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + valid, wantStatus: fiber.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantStatus: fiber.StatusUnauthorized},
		{name: "malformed token", header: "Bearer not-a-token", wantStatus: fiber.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, wantStatus: fiber.StatusUnauthorized},
		{name: "deleted user", header: "Bearer " + deleted, wantStatus: fiber.StatusUnauthorized},
		{name: "valid", header: "Bearer " + valid, wantStatus: fiber.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body := decodeBody(t, resp.Body)
			if tt.wantStatus == fiber.StatusUnauthorized {
				assert.Equal(t, unauthorizedMessage, body["message"])
				return
			}
			assert.Equal(t, "user-1", body["id"])
			assert.Equal(t, "ann@example.com", body["email"])
			assert.Equal(t, false, body["hasHash"])
		})
	}
}

func TestAuthMiddleware_ResolverFailure(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newGateApp(tm, &stubResolver{err: errors.New("db down")})

	token, _, err := tm.Issue("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestPrincipalFromContext_Unauthenticated(t *testing.T) {
	app := newGateApp(NewTokenManager(testSecret, time.Hour), &stubResolver{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp.Body)["authenticated"])
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "  Bearer   abc  ", want: "abc", ok: true},
		{header: "BEARER abc", want: "abc", ok: true},
		{header: "Bearer", ok: false},
		{header: "Token abc", ok: false},
		{header: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}
