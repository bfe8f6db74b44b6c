package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/repository"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

// RoleResolver loads the live role, permission matrix included, behind a principal's role reference.
type RoleResolver interface {
	ResolveRole(ctx context.Context, roleID string) (*domain.Role, error)
}

// PermissionGate guards mutating routes with the caller's permission matrix.
type PermissionGate struct {
	roles  RoleResolver
	logger *zap.Logger
}

// NewPermissionGate constructs the gate.
func NewPermissionGate(roles RoleResolver, logger *zap.Logger) *PermissionGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionGate{roles: roles, logger: logger}
}

// Require allows the request through only when the principal's role grants action on resource.
func (g *PermissionGate) Require(resource domain.ResourceType, action domain.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}

		allowed, err := g.Allowed(c.UserContext(), principal, resource, action)
		if err != nil {
			return err
		}
		if !allowed {
			g.logger.Info("permission denied",
				zap.String("user_id", principal.ID),
				zap.String("role_id", principal.Role.ID),
				zap.String("resource", string(resource)),
				zap.String("action", string(action)))
			return apperrors.NewForbidden("insufficient permission")
		}
		return c.Next()
	}
}

// Allowed resolves the principal's role and evaluates it. A role that no longer
// resolves is a deny, not an error.
func (g *PermissionGate) Allowed(ctx context.Context, principal *domain.Principal, resource domain.ResourceType, action domain.Action) (bool, error) {
	if principal == nil || principal.Role.ID == "" {
		return false, nil
	}
	role, err := g.roles.ResolveRole(ctx, principal.Role.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return Check(role, resource, action), nil
}
