package memory

import (
	"context"
	"strings"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository"
)

type userStore struct {
	s *Store
}

func userField(u domain.User, field string) (any, bool) {
	switch field {
	case "id":
		return u.ID, true
	case "username":
		return u.Username, true
	case "fullname":
		return u.Fullname, true
	case "email":
		return u.Email, true
	case "role.name":
		if u.Role == nil {
			return "", true
		}
		return u.Role.Name, true
	case "createdAt":
		return u.CreatedAt, true
	default:
		return nil, false
	}
}

// hydrate attaches the live role reference; callers hold the store lock.
func (u *userStore) hydrate(user domain.User) *domain.User {
	user.Email = cloneString(user.Email)
	user.Role = nil
	if role, ok := u.s.roles[user.RoleID]; ok && !role.Archived {
		ref := role.Ref()
		user.Role = &ref
	}
	return &user
}

func (u *userStore) Create(_ context.Context, user *domain.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	now := u.s.now()
	user.ID = newID()
	user.Archived = false
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	stored.Email = cloneString(user.Email)
	stored.Role = nil
	u.s.users[user.ID] = stored
	return nil
}

func (u *userStore) Update(_ context.Context, user *domain.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	existing, ok := u.s.users[user.ID]
	if !ok || existing.Archived {
		return repository.ErrNotFound
	}
	user.CreatedAt = existing.CreatedAt
	user.Archived = false
	user.UpdatedAt = u.s.now()
	stored := *user
	stored.Email = cloneString(user.Email)
	stored.Role = nil
	u.s.users[user.ID] = stored
	return nil
}

func (u *userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok || user.Archived {
		return nil, repository.ErrNotFound
	}
	return u.hydrate(user), nil
}

func (u *userStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if !user.Archived && user.Username == username {
			return u.hydrate(user), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *userStore) Archive(_ context.Context, id string) (*domain.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user, ok := u.s.users[id]
	if !ok || user.Archived {
		return nil, repository.ErrNotFound
	}
	user.Archived = true
	user.UpdatedAt = u.s.now()
	u.s.users[id] = user
	return u.hydrate(user), nil
}

func (u *userStore) UsernameTaken(_ context.Context, username, excludeID string) (bool, error) {
	return u.taken(func(user domain.User) bool { return user.Username == username }, excludeID), nil
}

func (u *userStore) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	return u.taken(func(user domain.User) bool {
		return user.Email != nil && strings.EqualFold(*user.Email, email)
	}, excludeID), nil
}

func (u *userStore) taken(match func(domain.User) bool, excludeID string) bool {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for id, user := range u.s.users {
		if user.Archived || (excludeID != "" && id == excludeID) {
			continue
		}
		if match(user) {
			return true
		}
	}
	return false
}

func (u *userStore) FindPage(_ context.Context, c query.Criteria) (query.Page[domain.User], error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	items := make([]domain.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		if !user.Archived {
			items = append(items, *u.hydrate(user))
		}
	}
	return paginate(items, c, userField)
}
