package dto

import (
	"time"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/service"
)

// CreateRoleRequest payload.
type CreateRoleRequest struct {
	Name        string                  `json:"name" validate:"required,max=100"`
	Description string                  `json:"description" validate:"max=500"`
	Permissions domain.PermissionMatrix `json:"permissions"`
}

// Input converts the request for the service.
func (r CreateRoleRequest) Input() service.CreateRoleInput {
	return service.CreateRoleInput{Name: r.Name, Description: r.Description, Permissions: r.Permissions}
}

// UpdateRoleRequest payload. Omitted fields stay unchanged.
type UpdateRoleRequest struct {
	ID          string                  `json:"id" validate:"required"`
	Name        *string                 `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string                 `json:"description" validate:"omitempty,max=500"`
	Permissions domain.PermissionMatrix `json:"permissions"`
}

// Input converts the request for the service.
func (r UpdateRoleRequest) Input() service.UpdateRoleInput {
	return service.UpdateRoleInput{ID: r.ID, Name: r.Name, Description: r.Description, Permissions: r.Permissions}
}

// SetDefaultRoleRequest payload.
type SetDefaultRoleRequest struct {
	RoleID string `json:"roleId" validate:"required"`
}

// RoleResponse is the public shape of a role.
type RoleResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Permissions domain.PermissionMatrix `json:"permissions"`
	Default     bool                    `json:"default"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// NewRoleResponse maps a role.
func NewRoleResponse(role *domain.Role) RoleResponse {
	perms := role.Permissions
	if perms == nil {
		perms = domain.PermissionMatrix{}
	}
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: perms,
		Default:     role.IsDefault,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}
