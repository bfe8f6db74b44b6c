package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cforclown/school-admin/internal/api/dto"
	"github.com/cforclown/school-admin/internal/service"
)

// AuthHandler exposes login and token renewal.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return ok(c, dto.NewAuthResponse(session))
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return ok(c, dto.NewAuthResponse(session))
}

// Verify handles GET /api/auth/verify.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	session, err := h.auth.Verify(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, dto.NewAuthResponse(session))
}
