package dto

import "github.com/cforclown/school-admin/internal/service"

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest payload for token renewal.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse is returned by login, refresh and verify.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

// NewAuthResponse maps a session.
func NewAuthResponse(session *service.Session) AuthResponse {
	return AuthResponse{
		User:         NewUserResponse(session.User),
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
		ExpiresIn:    session.Tokens.ExpiresIn,
	}
}
