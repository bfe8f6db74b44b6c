package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/events"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

var roleQuery = query.Options{
	Searchable: []string{"name"},
	Sortable: map[string]string{
		"name":        "name",
		"description": "description",
		"createdAt":   "createdAt",
	},
	DefaultSort: "name",
}

// CreateRoleInput carries the fields of a new role.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions domain.PermissionMatrix
}

// UpdateRoleInput carries a partial role update. Nil fields are left unchanged.
type UpdateRoleInput struct {
	ID          string
	Name        *string
	Description *string
	Permissions domain.PermissionMatrix
}

// RoleService manages roles and the single default role.
type RoleService struct {
	roles      repository.RoleRepository
	engine     *query.Engine[domain.Role]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRoleService builds the service.
func NewRoleService(roles repository.RoleRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{
		roles:      roles,
		engine:     query.NewEngine[domain.Role](roles, roleQuery),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Get returns a non-archived role.
func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("role", id, err)
	}
	return role, nil
}

// Find lists roles matching search by name.
func (s *RoleService) Find(ctx context.Context, search string, pagination query.Pagination) (*query.PageResult[domain.Role], error) {
	return s.engine.Find(ctx, search, pagination)
}

// Create stores a new role. The first role ever created becomes the default.
func (s *RoleService) Create(ctx context.Context, actorID string, input CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("role name is required", map[string]any{"name": "required"})
	}
	if err := validatePermissions(input.Permissions); err != nil {
		return nil, err
	}

	count, err := s.roles.Count(ctx)
	if err != nil {
		return nil, err
	}

	role := &domain.Role{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Permissions: normalizePermissions(input.Permissions),
		IsDefault:   count == 0,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventRoleCreated, role.ID, actorID, nil))
	return role, nil
}

// Update applies a partial update to a role.
func (s *RoleService) Update(ctx context.Context, actorID string, input UpdateRoleInput) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, input.ID)
	if err != nil {
		return nil, writeLookupError("role", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("role name is required", map[string]any{"name": "required"})
		}
		role.Name = name
	}
	if input.Description != nil {
		role.Description = strings.TrimSpace(*input.Description)
	}
	if input.Permissions != nil {
		if err := validatePermissions(input.Permissions); err != nil {
			return nil, err
		}
		role.Permissions = normalizePermissions(input.Permissions)
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, writeLookupError("role", err)
	}

	s.publish(ctx, events.New(events.EventRoleUpdated, role.ID, actorID, nil))
	return role, nil
}

// Delete archives a role. The current default role cannot be archived.
func (s *RoleService) Delete(ctx context.Context, actorID, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, writeLookupError("role", err)
	}
	if role.IsDefault {
		return nil, apperrors.NewValidationError("the default role cannot be deleted", map[string]any{"roleId": id})
	}

	archived, err := s.roles.Archive(ctx, id)
	if err != nil {
		return nil, writeLookupError("role", err)
	}

	s.publish(ctx, events.New(events.EventRoleArchived, archived.ID, actorID, nil))
	return archived, nil
}

// SetDefault makes roleID the single default role in three store steps:
// load the target, clear every default flag, then flag the target. The steps
// are not atomic; a failure after the clear leaves no default role and is
// returned to the caller as is.
func (s *RoleService) SetDefault(ctx context.Context, actorID, roleID string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, lookupError("role", roleID, err)
	}

	var previousID string
	if previous, err := s.roles.GetDefault(ctx); err == nil {
		previousID = previous.ID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err := s.roles.ClearDefault(ctx); err != nil {
		return nil, err
	}

	role.IsDefault = true
	if err := s.roles.Update(ctx, role); err != nil {
		s.logger.Error("default role cleared but not reassigned",
			zap.String("role_id", role.ID),
			zap.String("previous_role_id", previousID),
			zap.Error(err))
		return nil, err
	}

	s.publish(ctx, events.New(events.EventRoleDefaultChanged, role.ID, actorID, events.DefaultChangedPayload{PreviousRoleID: previousID}))
	return role, nil
}

// GetDefault returns the default role. Its absence is a broken server
// invariant, not a client error.
func (s *RoleService) GetDefault(ctx context.Context) (*domain.Role, error) {
	role, err := s.roles.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("no default role configured")
			return nil, apperrors.NewInvariantViolation(apperrors.CodeDefaultRoleMissing, "no default role is configured")
		}
		return nil, err
	}
	return role, nil
}

func (s *RoleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validatePermissions(matrix domain.PermissionMatrix) error {
	details := map[string]any{}
	for resource := range matrix {
		if !resource.Valid() {
			details[fmt.Sprintf("permissions.%s", resource)] = "unknown resource type"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid permissions", details)
	}
	return nil
}

// normalizePermissions fills every known resource so stored matrices are total.
func normalizePermissions(matrix domain.PermissionMatrix) domain.PermissionMatrix {
	out := make(domain.PermissionMatrix, len(domain.ResourceTypes()))
	for _, resource := range domain.ResourceTypes() {
		out[resource] = matrix[resource]
	}
	return out
}
