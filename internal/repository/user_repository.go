package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
)

const userColumns = `u.id::text, u.username, u.fullname, u.email, u.password_hash, u.role_id::text,
        r.id::text, r.name, r.description, u.archived, u.created_at, u.updated_at`

const userFrom = `users u LEFT JOIN roles r ON r.id = u.role_id AND r.archived = FALSE`

var userPage = pageTable{
	columns:  userColumns,
	from:     userFrom,
	archived: "u.archived",
	tiebreak: "u.id",
	fields: map[string]string{
		"username":  "u.username",
		"fullname":  "u.fullname",
		"email":     "u.email",
		"role.name": "r.name",
		"createdAt": "u.created_at",
	},
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const q = `
        INSERT INTO users (username, fullname, email, password_hash, role_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id::text, archived, created_at, updated_at`

	return r.db.QueryRow(ctx, q,
		user.Username,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.RoleID,
	).Scan(&user.ID, &user.Archived, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if !validID(user.ID) {
		return ErrNotFound
	}
	const q = `
        UPDATE users SET username=$1, fullname=$2, email=$3, password_hash=$4, role_id=$5, updated_at=NOW()
        WHERE id=$6 AND archived = FALSE
        RETURNING updated_at`

	err := r.db.QueryRow(ctx, q,
		user.Username,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.RoleID,
		user.ID,
	).Scan(&user.UpdatedAt)
	return notFoundIfNoRows(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	q := `SELECT ` + userColumns + ` FROM ` + userFrom + ` WHERE u.id=$1 AND u.archived = FALSE`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM ` + userFrom + ` WHERE u.username=$1 AND u.archived = FALSE`
	return scanUser(r.db.QueryRow(ctx, q, username))
}

func (r *userRepository) Archive(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	const q = `UPDATE users SET archived = TRUE, updated_at = NOW() WHERE id=$1 AND archived = FALSE RETURNING id::text`
	var archivedID string
	if err := r.db.QueryRow(ctx, q, id).Scan(&archivedID); err != nil {
		return nil, notFoundIfNoRows(err)
	}
	sel := `SELECT ` + userColumns + ` FROM ` + userFrom + ` WHERE u.id=$1`
	return scanUser(r.db.QueryRow(ctx, sel, archivedID))
}

func (r *userRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	return r.taken(ctx, "username=$1", username, excludeID)
}

func (r *userRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return r.taken(ctx, "LOWER(email)=LOWER($1)", email, excludeID)
}

// taken is only called with the fixed predicates above.
func (r *userRepository) taken(ctx context.Context, predicate, value, excludeID string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + predicate + ` AND archived = FALSE`
	args := []any{value}
	if excludeID != "" && validID(excludeID) {
		q += ` AND id <> $2`
		args = append(args, excludeID)
	}
	q += `)`

	var exists bool
	err := r.db.QueryRow(ctx, q, args...).Scan(&exists)
	return exists, err
}

func (r *userRepository) FindPage(ctx context.Context, c query.Criteria) (query.Page[domain.User], error) {
	sql, args, err := buildPageQuery(userPage, c)
	if err != nil {
		return query.Page[domain.User]{}, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return query.Page[domain.User]{}, err
	}
	defer rows.Close()

	page := query.Page[domain.User]{Items: []domain.User{}}
	for rows.Next() {
		var (
			user domain.User
			ref  nullableRoleRef
		)
		if err := rows.Scan(append(userDest(&user, &ref), &page.Total)...); err != nil {
			return query.Page[domain.User]{}, err
		}
		user.Role = ref.value()
		page.Items = append(page.Items, user)
	}
	return page, rows.Err()
}

type nullableRoleRef struct {
	id, name, description *string
}

func (n nullableRoleRef) value() *domain.RoleRef {
	if n.id == nil {
		return nil
	}
	ref := &domain.RoleRef{ID: *n.id}
	if n.name != nil {
		ref.Name = *n.name
	}
	if n.description != nil {
		ref.Description = *n.description
	}
	return ref
}

func userDest(user *domain.User, ref *nullableRoleRef) []any {
	return []any{
		&user.ID,
		&user.Username,
		&user.Fullname,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&ref.id,
		&ref.name,
		&ref.description,
		&user.Archived,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		ref  nullableRoleRef
	)
	if err := row.Scan(userDest(&user, &ref)...); err != nil {
		return nil, notFoundIfNoRows(err)
	}
	user.Role = ref.value()
	return &user, nil
}
