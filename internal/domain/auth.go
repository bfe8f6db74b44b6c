package domain

// TokenKind differentiates access and refresh credentials.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Fullname string  `json:"fullname"`
	Email    *string `json:"email,omitempty"`
	Role     RoleRef `json:"role"`
}

// TokenPair is returned by login and refresh flows.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
}
