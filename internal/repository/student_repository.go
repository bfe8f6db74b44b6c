package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
)

const studentColumns = `s.id::text, s.fullname, s.nim, s.date_of_birth, s.archived, s.created_at, s.updated_at`

var studentPage = pageTable{
	columns:  studentColumns,
	from:     "students s",
	archived: "s.archived",
	tiebreak: "s.id",
	fields: map[string]string{
		"fullname":  "s.fullname",
		"nim":       "s.nim",
		"createdAt": "s.created_at",
	},
}

type studentRepository struct {
	db DB
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(db DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const q = `
        INSERT INTO students (fullname, nim, date_of_birth)
        VALUES ($1, $2, $3)
        RETURNING id::text, archived, created_at, updated_at`
	return r.db.QueryRow(ctx, q,
		student.Fullname,
		student.NIM,
		student.DateOfBirth,
	).Scan(&student.ID, &student.Archived, &student.CreatedAt, &student.UpdatedAt)
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	if !validID(student.ID) {
		return ErrNotFound
	}
	const q = `
        UPDATE students SET fullname=$1, nim=$2, date_of_birth=$3, updated_at=NOW()
        WHERE id=$4 AND archived = FALSE
        RETURNING updated_at`
	err := r.db.QueryRow(ctx, q,
		student.Fullname,
		student.NIM,
		student.DateOfBirth,
		student.ID,
	).Scan(&student.UpdatedAt)
	return notFoundIfNoRows(err)
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	q := `SELECT ` + studentColumns + ` FROM students s WHERE s.id=$1 AND s.archived = FALSE`
	return scanStudent(r.db.QueryRow(ctx, q, id))
}

func (r *studentRepository) Archive(ctx context.Context, id string) (*domain.Student, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	q := `UPDATE students s SET archived = TRUE, updated_at = NOW() WHERE s.id=$1 AND s.archived = FALSE RETURNING ` + studentColumns
	return scanStudent(r.db.QueryRow(ctx, q, id))
}

func (r *studentRepository) FindPage(ctx context.Context, c query.Criteria) (query.Page[domain.Student], error) {
	sql, args, err := buildPageQuery(studentPage, c)
	if err != nil {
		return query.Page[domain.Student]{}, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return query.Page[domain.Student]{}, err
	}
	defer rows.Close()

	page := query.Page[domain.Student]{Items: []domain.Student{}}
	for rows.Next() {
		var student domain.Student
		if err := rows.Scan(&student.ID, &student.Fullname, &student.NIM, &student.DateOfBirth,
			&student.Archived, &student.CreatedAt, &student.UpdatedAt, &page.Total); err != nil {
			return query.Page[domain.Student]{}, err
		}
		page.Items = append(page.Items, student)
	}
	return page, rows.Err()
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var student domain.Student
	if err := row.Scan(
		&student.ID,
		&student.Fullname,
		&student.NIM,
		&student.DateOfBirth,
		&student.Archived,
		&student.CreatedAt,
		&student.UpdatedAt,
	); err != nil {
		return nil, notFoundIfNoRows(err)
	}
	return &student, nil
}
