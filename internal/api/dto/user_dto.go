package dto

import (
	"time"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/service"
)

// CreateUserRequest payload. An empty roleId assigns the default role.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Fullname string  `json:"fullname" validate:"required,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	RoleID   string  `json:"roleId"`
}

// Input converts the request for the service.
func (r CreateUserRequest) Input() service.CreateUserInput {
	return service.CreateUserInput{
		Username: r.Username,
		Fullname: r.Fullname,
		Email:    r.Email,
		Password: r.Password,
		RoleID:   r.RoleID,
	}
}

// ChangeRoleRequest payload.
type ChangeRoleRequest struct {
	UserID string `json:"userId" validate:"required"`
	RoleID string `json:"roleId" validate:"required"`
}

// UpdateProfileRequest payload.
type UpdateProfileRequest struct {
	Fullname *string `json:"fullname" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// Input converts the request for the service.
func (r UpdateProfileRequest) Input() service.UpdateProfileInput {
	return service.UpdateProfileInput{Fullname: r.Fullname, Email: r.Email}
}

// UsernameAvailabilityResponse reports whether a username can be taken.
type UsernameAvailabilityResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// UserResponse is the public shape of a user. The password hash never leaves
// the service.
type UserResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Fullname  string          `json:"fullname"`
	Email     *string         `json:"email"`
	Role      *domain.RoleRef `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// NewUserResponse maps a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Fullname:  user.Fullname,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
