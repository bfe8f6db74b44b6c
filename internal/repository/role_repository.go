package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
)

const roleColumns = `r.id::text, r.name, r.description, r.permissions, r.archived, r.is_default, r.created_at, r.updated_at`

var rolePage = pageTable{
	columns:  roleColumns,
	from:     "roles r",
	archived: "r.archived",
	tiebreak: "r.id",
	fields: map[string]string{
		"name":        "r.name",
		"description": "r.description",
		"createdAt":   "r.created_at",
	},
}

type roleRepository struct {
	db DB
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(db DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const q = `
        INSERT INTO roles (name, description, permissions, is_default)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text, archived, created_at, updated_at`

	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	return r.db.QueryRow(ctx, q,
		role.Name,
		role.Description,
		perms,
		role.IsDefault,
	).Scan(&role.ID, &role.Archived, &role.CreatedAt, &role.UpdatedAt)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	if !validID(role.ID) {
		return ErrNotFound
	}
	const q = `
        UPDATE roles SET name=$1, description=$2, permissions=$3, is_default=$4, updated_at=NOW()
        WHERE id=$5 AND archived = FALSE
        RETURNING updated_at`

	perms, err := json.Marshal(role.Permissions)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	err = r.db.QueryRow(ctx, q,
		role.Name,
		role.Description,
		perms,
		role.IsDefault,
		role.ID,
	).Scan(&role.UpdatedAt)
	return notFoundIfNoRows(err)
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	q := `SELECT ` + roleColumns + ` FROM roles r WHERE r.id=$1 AND r.archived = FALSE`
	return scanRole(r.db.QueryRow(ctx, q, id))
}

func (r *roleRepository) GetDefault(ctx context.Context) (*domain.Role, error) {
	q := `SELECT ` + roleColumns + ` FROM roles r WHERE r.is_default = TRUE AND r.archived = FALSE LIMIT 1`
	return scanRole(r.db.QueryRow(ctx, q))
}

func (r *roleRepository) ClearDefault(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `UPDATE roles SET is_default = FALSE, updated_at = NOW() WHERE is_default = TRUE`)
	return err
}

func (r *roleRepository) Archive(ctx context.Context, id string) (*domain.Role, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	q := `UPDATE roles r SET archived = TRUE, updated_at = NOW() WHERE r.id=$1 AND r.archived = FALSE RETURNING ` + roleColumns
	return scanRole(r.db.QueryRow(ctx, q, id))
}

func (r *roleRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM roles WHERE archived = FALSE`).Scan(&n)
	return n, err
}

func (r *roleRepository) FindPage(ctx context.Context, c query.Criteria) (query.Page[domain.Role], error) {
	sql, args, err := buildPageQuery(rolePage, c)
	if err != nil {
		return query.Page[domain.Role]{}, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return query.Page[domain.Role]{}, err
	}
	defer rows.Close()

	page := query.Page[domain.Role]{Items: []domain.Role{}}
	for rows.Next() {
		var (
			role  domain.Role
			perms []byte
		)
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &perms, &role.Archived, &role.IsDefault,
			&role.CreatedAt, &role.UpdatedAt, &page.Total); err != nil {
			return query.Page[domain.Role]{}, err
		}
		if err := decodePermissions(perms, &role); err != nil {
			return query.Page[domain.Role]{}, err
		}
		page.Items = append(page.Items, role)
	}
	return page, rows.Err()
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var (
		role  domain.Role
		perms []byte
	)
	if err := row.Scan(
		&role.ID,
		&role.Name,
		&role.Description,
		&perms,
		&role.Archived,
		&role.IsDefault,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, notFoundIfNoRows(err)
	}
	if err := decodePermissions(perms, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func decodePermissions(raw []byte, role *domain.Role) error {
	role.Permissions = domain.PermissionMatrix{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &role.Permissions); err != nil {
		return fmt.Errorf("decode permissions of role %s: %w", role.ID, err)
	}
	return nil
}
