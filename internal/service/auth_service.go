package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/auth"
	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/repository"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

// Session is the result of a successful login, refresh or verify.
type Session struct {
	User   *domain.User
	Tokens domain.TokenPair
}

// AuthService coordinates login and token renewal flows.
type AuthService struct {
	users   repository.UserRepository
	tokens  *auth.TokenService
	logger  *zap.Logger
	decoy   string
	compare func(hashed, plain string) error
}

// NewAuthService builds the service. bcryptCost should match the cost used for
// stored hashes so unknown usernames take as long to reject as wrong passwords.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, bcryptCost int, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	decoy, err := auth.HashPassword(uuid.NewString(), bcryptCost)
	if err != nil {
		logger.Warn("decoy password hash", zap.Error(err))
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		logger:  logger,
		decoy:   decoy,
		compare: auth.ComparePassword,
	}
}

// Login authenticates a user by username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.compare(s.decoy, password)
			return nil, apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, err
	}
	if err := s.compare(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID))
		return nil, apperrors.NewUnauthorized("invalid username or password")
	}
	return s.issue(user)
}

// Refresh exchanges a refresh token for a new pair. The user is re-read so an
// archived or deleted account can never renew its session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	return s.reissue(ctx, claims.User.ID)
}

// Verify re-issues a pair for an already authenticated principal.
func (s *AuthService) Verify(ctx context.Context, principal *domain.Principal) (*Session, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.reissue(ctx, principal.ID)
}

func (s *AuthService) reissue(ctx context.Context, userID string) (*Session, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.WrapUnauthorized("session user no longer exists", err)
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	pair, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Tokens: pair}, nil
}
