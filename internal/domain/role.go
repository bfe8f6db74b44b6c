package domain

import "time"

// Role bundles a permission matrix with descriptive metadata.
type Role struct {
	ID          string
	Name        string
	Description string
	Permissions PermissionMatrix
	Archived    bool
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoleRef is the reduced role snapshot embedded in principals and tokens.
// It never carries the permission matrix.
type RoleRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Ref reduces the role to its public snapshot.
func (r *Role) Ref() RoleRef {
	if r == nil {
		return RoleRef{}
	}
	return RoleRef{ID: r.ID, Name: r.Name, Description: r.Description}
}
