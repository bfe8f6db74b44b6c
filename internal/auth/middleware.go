package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cforclown/school-admin/internal/domain"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and exposes the embedded principal.
// It never touches the store; claims are self-contained.
type AuthMiddleware struct {
	tokens *TokenService
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.VerifyAccess(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}

	principal := claims.User
	c.Locals(principalKey, &principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
