package domain

import "time"

// User is an administrative account that signs in to the backend.
type User struct {
	ID           string
	Username     string
	Fullname     string
	Email        *string
	PasswordHash string
	RoleID       string
	// Role is hydrated by repositories on reads; nil when the role row is gone.
	Role      *RoleRef
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal returns the identity snapshot used for tokens and request scope.
func (u *User) Principal() Principal {
	p := Principal{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
		Email:    u.Email,
	}
	if u.Role != nil {
		p.Role = *u.Role
	} else {
		p.Role = RoleRef{ID: u.RoleID}
	}
	return p
}
