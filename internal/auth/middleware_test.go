package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/repository"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

func errorStatus(c *fiber.Ctx, err error) error {
	return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
}

type staticRoles map[string]*domain.Role

func (s staticRoles) ResolveRole(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := s[id]; ok {
		return role, nil
	}
	return nil, repository.ErrNotFound
}

type brokenRoles struct{}

func (brokenRoles) ResolveRole(context.Context, string) (*domain.Role, error) {
	return nil, errors.New("db down")
}

func newProtectedApp(tokens *TokenService, roles RoleResolver) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorStatus})
	gate := NewPermissionGate(roles, nil)
	mw := NewAuthMiddleware(tokens)

	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(principal.Username)
	})
	app.Post("/students", mw.Handle, gate.Require(domain.ResourceMasterData, domain.ActionCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tokens := newTestTokens()
	app := newProtectedApp(tokens, staticRoles{})
	pair, err := tokens.Issue(testPrincipal())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + pair.AccessToken, want: http.StatusOK},
		{name: "scheme case", header: "bearer " + pair.AccessToken, want: http.StatusOK},
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + pair.AccessToken, want: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "refresh token", header: "Bearer " + pair.RefreshToken, want: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPermissionGate(t *testing.T) {
	tokens := newTestTokens()
	principal := testPrincipal()
	pair, err := tokens.Issue(principal)
	require.NoError(t, err)

	grant := &domain.Role{ID: "r-1", Permissions: domain.PermissionMatrix{domain.ResourceMasterData: {Create: true}}}
	deny := &domain.Role{ID: "r-1", Permissions: domain.PermissionMatrix{domain.ResourceMasterData: {View: true}}}

	tests := []struct {
		name  string
		roles RoleResolver
		want  int
	}{
		{name: "granted", roles: staticRoles{"r-1": grant}, want: http.StatusOK},
		{name: "denied", roles: staticRoles{"r-1": deny}, want: http.StatusForbidden},
		{name: "role gone", roles: staticRoles{}, want: http.StatusForbidden},
		{name: "resolver error", roles: brokenRoles{}, want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newProtectedApp(tokens, tt.roles)
			req := httptest.NewRequest(http.MethodPost, "/students", nil)
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGateWithoutPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorStatus})
	app.Post("/x", NewPermissionGate(staticRoles{}, nil).Require(domain.ResourceUsers, domain.ActionCreate), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
