package memory

import (
	"context"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository"
)

type roleStore struct {
	s *Store
}

func roleField(r domain.Role, field string) (any, bool) {
	switch field {
	case "id":
		return r.ID, true
	case "name":
		return r.Name, true
	case "description":
		return r.Description, true
	case "createdAt":
		return r.CreatedAt, true
	default:
		return nil, false
	}
}

func cloneRole(r domain.Role) *domain.Role {
	r.Permissions = clonePermissions(r.Permissions)
	return &r
}

func (r *roleStore) Create(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	role.ID = newID()
	role.Archived = false
	role.CreatedAt = now
	role.UpdatedAt = now
	r.s.roles[role.ID] = *cloneRole(*role)
	return nil
}

func (r *roleStore) Update(_ context.Context, role *domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.roles[role.ID]
	if !ok || existing.Archived {
		return repository.ErrNotFound
	}
	role.CreatedAt = existing.CreatedAt
	role.Archived = false
	role.UpdatedAt = r.s.now()
	r.s.roles[role.ID] = *cloneRole(*role)
	return nil
}

func (r *roleStore) GetByID(_ context.Context, id string) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	role, ok := r.s.roles[id]
	if !ok || role.Archived {
		return nil, repository.ErrNotFound
	}
	return cloneRole(role), nil
}

func (r *roleStore) GetDefault(_ context.Context) (*domain.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, role := range r.s.roles {
		if role.IsDefault && !role.Archived {
			return cloneRole(role), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *roleStore) ClearDefault(_ context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, role := range r.s.roles {
		if role.IsDefault {
			role.IsDefault = false
			role.UpdatedAt = now
			r.s.roles[id] = role
		}
	}
	return nil
}

func (r *roleStore) Archive(_ context.Context, id string) (*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	role, ok := r.s.roles[id]
	if !ok || role.Archived {
		return nil, repository.ErrNotFound
	}
	role.Archived = true
	role.UpdatedAt = r.s.now()
	r.s.roles[id] = role
	return cloneRole(role), nil
}

func (r *roleStore) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, role := range r.s.roles {
		if !role.Archived {
			n++
		}
	}
	return n, nil
}

func (r *roleStore) FindPage(_ context.Context, c query.Criteria) (query.Page[domain.Role], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]domain.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		if !role.Archived {
			items = append(items, *cloneRole(role))
		}
	}
	return paginate(items, c, roleField)
}
