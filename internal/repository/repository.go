package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
)

// ErrNotFound is returned when a non-archived record does not exist.
var ErrNotFound = errors.New("record not found")

// DB is the subset of pgxpool.Pool used by the Postgres repositories.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RoleRepository persists roles. Reads never return archived roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetDefault(ctx context.Context) (*domain.Role, error)
	// ClearDefault sets is_default=false on every role.
	ClearDefault(ctx context.Context) error
	Archive(ctx context.Context, id string) (*domain.Role, error)
	Count(ctx context.Context) (int, error)
	query.Source[domain.Role]
}

// UserRepository persists users. Reads never return archived users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Archive(ctx context.Context, id string) (*domain.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	query.Source[domain.User]
}

// StudentRepository persists students. Reads never return archived students.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id string) (*domain.Student, error)
	Archive(ctx context.Context, id string) (*domain.Student, error)
	query.Source[domain.Student]
}

func notFoundIfNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
