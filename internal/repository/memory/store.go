// Package memory provides in-process implementations of the repository
// interfaces. It backs the service when no database is configured and is the
// store used by tests.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/repository"
)

// Store holds every collection behind one lock so joined reads see a single snapshot.
type Store struct {
	mu       sync.RWMutex
	roles    map[string]domain.Role
	users    map[string]domain.User
	students map[string]domain.Student
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		roles:    make(map[string]domain.Role),
		users:    make(map[string]domain.User),
		students: make(map[string]domain.Student),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Roles returns the role repository view of the store.
func (s *Store) Roles() repository.RoleRepository {
	return &roleStore{s: s}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository {
	return &userStore{s: s}
}

// Students returns the student repository view of the store.
func (s *Store) Students() repository.StudentRepository {
	return &studentStore{s: s}
}

func newID() string {
	return uuid.NewString()
}

func clonePermissions(in domain.PermissionMatrix) domain.PermissionMatrix {
	out := make(domain.PermissionMatrix, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneString(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
