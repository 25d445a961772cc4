package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/repository"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

// unauthorizedMessage is shared by every gate rejection so clients cannot tell reasons apart.
const unauthorizedMessage = "you are not logged in"

type principalKey struct{}

// Principal represents the authenticated caller. Only AuthMiddleware constructs one.
type Principal struct {
	user *domain.User
}

// User returns the resolved account, without its password hash.
func (p *Principal) User() *domain.User {
	return p.user
}

// UserID returns the resolved account id.
func (p *Principal) UserID() string {
	return p.user.ID
}

// IdentityResolver loads the user a token was issued for.
type IdentityResolver interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  IdentityResolver
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users IdentityResolver, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return m.reject(c, "missing or malformed authorization header", nil)
	}

	userID, err := m.tokens.Verify(token)
	if err != nil {
		return m.reject(c, "token rejected", err)
	}

	user, err := m.users.FindByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return m.reject(c, "token subject no longer exists", err)
		}
		return apperrors.NewInternalError(err)
	}

	c.Locals(principalKey{}, &Principal{user: user.WithoutPassword()})
	return c.Next()
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, reason string, err error) error {
	m.logger.Debug("request unauthorized",
		zap.String("reason", reason),
		zap.String("path", c.Path()),
		zap.Error(err))
	return apperrors.NewUnauthorized(unauthorizedMessage)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey{}).(*Principal)
	if !ok || principal == nil || principal.user == nil {
		return nil, false
	}
	return principal, true
}

// RequirePrincipal returns the caller or an unauthorized error for handlers mounted behind the gate.
func RequirePrincipal(c *fiber.Ctx) (*Principal, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized(unauthorizedMessage)
	}
	return principal, nil
}
