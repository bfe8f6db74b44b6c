package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/auth"
	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/events"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

var userQuery = query.Options{
	Searchable: []string{"username", "email", "fullname", "role.name"},
	Sortable: map[string]string{
		"username":  "username",
		"fullname":  "fullname",
		"email":     "email",
		"createdAt": "createdAt",
	},
	DefaultSort: "username",
}

// CreateUserInput carries the fields of a new user. An empty RoleID assigns
// the default role.
type CreateUserInput struct {
	Username string
	Fullname string
	Email    *string
	Password string
	RoleID   string
}

// UpdateProfileInput carries the fields a user may change on their own account.
type UpdateProfileInput struct {
	Fullname *string
	Email    *string
}

// UserService manages user accounts and the caller's own profile.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	engine     *query.Engine[domain.User]
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// UserDependencies encapsulates repo requirements for the user service.
type UserDependencies struct {
	Users      repository.UserRepository
	Roles      repository.RoleRepository
	Dispatcher events.Dispatcher
	BcryptCost int
	Logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.Users,
		roles:      deps.Roles,
		engine:     query.NewEngine[domain.User](deps.Users, userQuery),
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// Get returns a non-archived user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("user", id, err)
	}
	return user, nil
}

// Find lists users matching search on username, email, fullname or role name.
func (s *UserService) Find(ctx context.Context, search string, pagination query.Pagination) (*query.PageResult[domain.User], error) {
	return s.engine.Find(ctx, search, pagination)
}

// UsernameAvailable reports whether username is free. A non-empty excludeID
// ignores that user, so a caller can keep their own name.
func (s *UserService) UsernameAvailable(ctx context.Context, username, excludeID string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, apperrors.NewValidationError("username is required", map[string]any{"username": "required"})
	}
	taken, err := s.users.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// Create registers a user account.
func (s *UserService) Create(ctx context.Context, actorID string, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if err := s.ensureUnique(ctx, username, email, ""); err != nil {
		return nil, err
	}

	roleID, err := s.resolveRoleID(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Fullname:     strings.TrimSpace(input.Fullname),
		Email:        email,
		PasswordHash: hash,
		RoleID:       roleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserCreated, user.ID, actorID, nil))
	return s.users.GetByID(ctx, user.ID)
}

// ChangeRole moves a user to another non-archived role.
func (s *UserService) ChangeRole(ctx context.Context, actorID, userID, roleID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, writeLookupError("user", err)
	}
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewValidationError("role does not exist", map[string]any{"roleId": roleID})
		}
		return nil, err
	}

	oldRoleID := user.RoleID
	user.RoleID = roleID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, writeLookupError("user", err)
	}

	s.publish(ctx, events.New(events.EventUserRoleChanged, user.ID, actorID, events.RoleChangedPayload{OldRoleID: oldRoleID, NewRoleID: roleID}))
	return s.users.GetByID(ctx, user.ID)
}

// Delete archives a user.
func (s *UserService) Delete(ctx context.Context, actorID, id string) (*domain.User, error) {
	user, err := s.users.Archive(ctx, id)
	if err != nil {
		return nil, writeLookupError("user", err)
	}
	s.publish(ctx, events.New(events.EventUserArchived, user.ID, actorID, nil))
	return user, nil
}

// Profile re-reads the caller's account.
func (s *UserService) Profile(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.WrapUnauthorized("session user no longer exists", err)
		}
		return nil, err
	}
	return user, nil
}

// ProfilePermissions returns the live permission matrix of the caller's role.
func (s *UserService) ProfilePermissions(ctx context.Context, principal *domain.Principal) (domain.PermissionMatrix, error) {
	user, err := s.Profile(ctx, principal)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PermissionMatrix{}, nil
		}
		return nil, err
	}
	return role.Permissions, nil
}

// UpdateProfile changes the caller's own fullname or email.
func (s *UserService) UpdateProfile(ctx context.Context, principal *domain.Principal, input UpdateProfileInput) (*domain.User, error) {
	if input.Fullname == nil && input.Email == nil {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}
	user, err := s.Profile(ctx, principal)
	if err != nil {
		return nil, err
	}

	if input.Fullname != nil {
		fullname := strings.TrimSpace(*input.Fullname)
		if fullname == "" {
			return nil, apperrors.NewValidationError("fullname is required", map[string]any{"fullname": "required"})
		}
		user.Fullname = fullname
	}
	if input.Email != nil {
		email := normalizeEmail(input.Email)
		if email != nil {
			taken, err := s.users.EmailTaken(ctx, *email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.NewConflict("email already in use", map[string]any{"email": *email})
			}
		}
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, writeLookupError("user", err)
	}
	return s.users.GetByID(ctx, user.ID)
}

func (s *UserService) ensureUnique(ctx context.Context, username string, email *string, excludeID string) error {
	taken, err := s.users.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewConflict("username already in use", map[string]any{"username": username})
	}
	if email == nil {
		return nil
	}
	taken, err = s.users.EmailTaken(ctx, *email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.NewConflict("email already in use", map[string]any{"email": *email})
	}
	return nil
}

func (s *UserService) resolveRoleID(ctx context.Context, roleID string) (string, error) {
	if roleID == "" {
		role, err := s.roles.GetDefault(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", apperrors.NewInvariantViolation(apperrors.CodeDefaultRoleMissing, "no default role is configured")
			}
			return "", err
		}
		return role.ID, nil
	}
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewValidationError("role does not exist", map[string]any{"roleId": roleID})
		}
		return "", err
	}
	return roleID, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
