package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cforclown/school-admin/internal/auth"
	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/events"
	"github.com/cforclown/school-admin/internal/repository/memory"
)

type recorder struct {
	events []events.Event
}

func (r *recorder) subscribeAll(d events.Dispatcher) {
	all := append(events.RoleEvents(),
		events.EventUserCreated, events.EventUserRoleChanged, events.EventUserArchived,
		events.EventStudentCreated, events.EventStudentUpdated, events.EventStudentArchived)
	for _, t := range all {
		d.Subscribe(t, func(_ context.Context, e events.Event) error {
			r.events = append(r.events, e)
			return nil
		})
	}
}

func (r *recorder) types() []events.EventType {
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	events   *recorder
	roles    *RoleService
	users    *UserService
	students *StudentService
	auth     *AuthService
	tokens   *auth.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(nil)
	rec := &recorder{}
	rec.subscribeAll(dispatcher)

	tokens := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})

	return &fixture{
		store:  store,
		events: rec,
		roles:  NewRoleService(store.Roles(), dispatcher, nil),
		users: NewUserService(UserDependencies{
			Users:      store.Users(),
			Roles:      store.Roles(),
			Dispatcher: dispatcher,
			BcryptCost: bcrypt.MinCost,
		}),
		students: NewStudentService(store.Students(), dispatcher, nil),
		auth:     NewAuthService(store.Users(), tokens, bcrypt.MinCost, nil),
		tokens:   tokens,
	}
}

func (f *fixture) role(t *testing.T, name string, perms domain.PermissionMatrix) *domain.Role {
	t.Helper()
	role, err := f.roles.Create(context.Background(), "", CreateRoleInput{Name: name, Permissions: perms})
	require.NoError(t, err)
	return role
}

func (f *fixture) user(t *testing.T, username, password, roleID string) *domain.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), "", CreateUserInput{
		Username: username,
		Fullname: "Full " + username,
		Password: password,
		RoleID:   roleID,
	})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T {
	return &v
}
