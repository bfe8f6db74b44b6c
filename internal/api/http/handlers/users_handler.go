package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cforclown/school-admin/internal/api/dto"
	"github.com/cforclown/school-admin/internal/service"
)

// UsersHandler exposes user management and the caller's profile.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Get handles GET /api/users/:userId.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}

// Find handles POST /api/users/find.
func (h *UsersHandler) Find(c *fiber.Ctx) error {
	var req dto.FindRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	page, err := h.users.Find(c.UserContext(), req.Query, req.Pagination)
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.NewUserResponse))
}

// UsernameAvailable handles GET /api/users/username/available/:username.
// With excludeSelf=true the caller's own username counts as available.
func (h *UsersHandler) UsernameAvailable(c *fiber.Ctx) error {
	username := c.Params("username")
	excludeID := ""
	if c.QueryBool("excludeSelf") {
		excludeID = actorID(c)
	}
	available, err := h.users.UsernameAvailable(c.UserContext(), username, excludeID)
	if err != nil {
		return err
	}
	return ok(c, dto.UsernameAvailabilityResponse{Username: username, Available: available})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), actorID(c), req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}

// ChangeRole handles PUT /api/users/change-role.
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	var req dto.ChangeRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.ChangeRole(c.UserContext(), actorID(c), req.UserID, req.RoleID)
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:userId.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, err := h.users.Delete(c.UserContext(), actorID(c), c.Params("userId"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}

// ProfileDetails handles GET /api/users/profile/details.
func (h *UsersHandler) ProfileDetails(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.users.Profile(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}

// ProfilePermissions handles GET /api/users/profile/permissions.
func (h *UsersHandler) ProfilePermissions(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	perms, err := h.users.ProfilePermissions(c.UserContext(), p)
	if err != nil {
		return err
	}
	return ok(c, perms)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.UserContext(), p, req.Input())
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserResponse(user))
}
