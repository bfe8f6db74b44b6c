package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cforclown/school-admin/internal/api/dto"
	"github.com/cforclown/school-admin/internal/service"
)

// RolesHandler exposes role management.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// Get handles GET /api/roles/:roleId.
func (h *RolesHandler) Get(c *fiber.Ctx) error {
	role, err := h.roles.Get(c.UserContext(), c.Params("roleId"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewRoleResponse(role))
}

// Find handles POST /api/roles/find.
func (h *RolesHandler) Find(c *fiber.Ctx) error {
	var req dto.FindRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	page, err := h.roles.Find(c.UserContext(), req.Query, req.Pagination)
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.NewRoleResponse))
}

// Create handles POST /api/roles.
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.roles.Create(c.UserContext(), actorID(c), req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewRoleResponse(role))
}

// Update handles PUT /api/roles.
func (h *RolesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.roles.Update(c.UserContext(), actorID(c), req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewRoleResponse(role))
}

// Delete handles DELETE /api/roles/:roleId.
func (h *RolesHandler) Delete(c *fiber.Ctx) error {
	role, err := h.roles.Delete(c.UserContext(), actorID(c), c.Params("roleId"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewRoleResponse(role))
}

// GetDefault handles GET /api/roles/role/default.
func (h *RolesHandler) GetDefault(c *fiber.Ctx) error {
	role, err := h.roles.GetDefault(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, dto.NewRoleResponse(role))
}

// SetDefault handles PUT /api/roles/role/default.
func (h *RolesHandler) SetDefault(c *fiber.Ctx) error {
	var req dto.SetDefaultRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	role, err := h.roles.SetDefault(c.UserContext(), actorID(c), req.RoleID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewRoleResponse(role))
}
