package memory

import (
	"context"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository"
)

type studentStore struct {
	s *Store
}

func studentField(st domain.Student, field string) (any, bool) {
	switch field {
	case "id":
		return st.ID, true
	case "fullname":
		return st.Fullname, true
	case "nim":
		return st.NIM, true
	case "createdAt":
		return st.CreatedAt, true
	default:
		return nil, false
	}
}

func (r *studentStore) Create(_ context.Context, student *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	student.ID = newID()
	student.Archived = false
	student.CreatedAt = now
	student.UpdatedAt = now
	r.s.students[student.ID] = *student
	return nil
}

func (r *studentStore) Update(_ context.Context, student *domain.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.students[student.ID]
	if !ok || existing.Archived {
		return repository.ErrNotFound
	}
	student.CreatedAt = existing.CreatedAt
	student.Archived = false
	student.UpdatedAt = r.s.now()
	r.s.students[student.ID] = *student
	return nil
}

func (r *studentStore) GetByID(_ context.Context, id string) (*domain.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	student, ok := r.s.students[id]
	if !ok || student.Archived {
		return nil, repository.ErrNotFound
	}
	return &student, nil
}

func (r *studentStore) Archive(_ context.Context, id string) (*domain.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	student, ok := r.s.students[id]
	if !ok || student.Archived {
		return nil, repository.ErrNotFound
	}
	student.Archived = true
	student.UpdatedAt = r.s.now()
	r.s.students[id] = student
	return &student, nil
}

func (r *studentStore) FindPage(_ context.Context, c query.Criteria) (query.Page[domain.Student], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]domain.Student, 0, len(r.s.students))
	for _, student := range r.s.students {
		if !student.Archived {
			items = append(items, student)
		}
	}
	return paginate(items, c, studentField)
}
