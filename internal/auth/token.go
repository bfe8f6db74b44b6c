package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/cforclown/school-admin/internal/domain"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

// Verification failure causes. They stay reachable through errors.Is on the
// unauthorized error returned by Verify.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenKind      = errors.New("unexpected token kind")
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenConfig carries the secrets and lifetimes of both token kinds.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims describes JWT payload.
type Claims struct {
	User domain.Principal `json:"user"`
	Kind domain.TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

type signer struct {
	kind   domain.TokenKind
	secret []byte
	ttl    time.Duration
}

// TokenService issues and validates access/refresh JWT pairs.
type TokenService struct {
	access  signer
	refresh signer
	now     func() time.Time
}

// NewTokenService builds a new service.
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &TokenService{
		access:  signer{kind: domain.TokenKindAccess, secret: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
		refresh: signer{kind: domain.TokenKindRefresh, secret: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		now:     time.Now,
	}
}

// Issue signs an access and a refresh token for the principal.
func (s *TokenService) Issue(principal domain.Principal) (domain.TokenPair, error) {
	accessToken, err := s.sign(s.access, principal)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refreshToken, err := s.sign(s.refresh, principal)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.access.ttl / time.Second),
	}, nil
}

// VerifyAccess validates a token signed with the access secret.
func (s *TokenService) VerifyAccess(tokenStr string) (*Claims, error) {
	return s.verify(s.access, tokenStr)
}

// VerifyRefresh validates a token signed with the refresh secret.
func (s *TokenService) VerifyRefresh(tokenStr string) (*Claims, error) {
	return s.verify(s.refresh, tokenStr)
}

// AccessTTL exposes the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.access.ttl
}

func (s *TokenService) sign(sg signer, principal domain.Principal) (string, error) {
	issuedAt := s.now()
	claims := &Claims{
		User: principal,
		Kind: sg.kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(sg.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sg.secret)
}

func (s *TokenService) verify(sg signer, tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return sg.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperrors.WrapUnauthorized("invalid token", classify(err))
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, apperrors.WrapUnauthorized("invalid token", ErrTokenMalformed)
	}
	if claims.Kind != sg.kind {
		return nil, apperrors.WrapUnauthorized("invalid token", ErrTokenKind)
	}
	if claims.User.ID == "" {
		return nil, apperrors.WrapUnauthorized("invalid token", ErrTokenMalformed)
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}
