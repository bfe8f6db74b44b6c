package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/events"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

var studentQuery = query.Options{
	Searchable: []string{"fullname", "nim"},
	Sortable: map[string]string{
		"fullname":  "fullname",
		"nim":       "nim",
		"createdAt": "createdAt",
	},
	DefaultSort: "fullname",
}

// CreateStudentInput carries the fields of a new student.
type CreateStudentInput struct {
	Fullname    string
	NIM         string
	DateOfBirth time.Time
}

// UpdateStudentInput carries a partial student update.
type UpdateStudentInput struct {
	ID          string
	Fullname    *string
	NIM         *string
	DateOfBirth *time.Time
}

// StudentService manages student master data.
type StudentService struct {
	students   repository.StudentRepository
	engine     *query.Engine[domain.Student]
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewStudentService builds the service.
func NewStudentService(students repository.StudentRepository, dispatcher events.Dispatcher, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:   students,
		engine:     query.NewEngine[domain.Student](students, studentQuery),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Get returns a non-archived student.
func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("student", id, err)
	}
	return student, nil
}

// Find lists students matching search on fullname or NIM.
func (s *StudentService) Find(ctx context.Context, search string, pagination query.Pagination) (*query.PageResult[domain.Student], error) {
	return s.engine.Find(ctx, search, pagination)
}

// Create stores a new student.
func (s *StudentService) Create(ctx context.Context, actorID string, input CreateStudentInput) (*domain.Student, error) {
	student := &domain.Student{
		Fullname:    strings.TrimSpace(input.Fullname),
		NIM:         strings.TrimSpace(input.NIM),
		DateOfBirth: input.DateOfBirth,
	}
	details := map[string]any{}
	if student.Fullname == "" {
		details["fullname"] = "required"
	}
	if student.NIM == "" {
		details["nim"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid student", details)
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("actor_id", actorID))
	s.publish(ctx, events.New(events.EventStudentCreated, student.ID, actorID, nil))
	return student, nil
}

// Update applies a partial update. At least one field must be present.
func (s *StudentService) Update(ctx context.Context, actorID string, input UpdateStudentInput) (*domain.Student, error) {
	if input.Fullname == nil && input.NIM == nil && input.DateOfBirth == nil {
		s.logger.Info("student update rejected", zap.String("student_id", input.ID), zap.String("reason", "no fields"))
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}

	student, err := s.students.GetByID(ctx, input.ID)
	if err != nil {
		return nil, writeLookupError("student", err)
	}
	if input.Fullname != nil {
		student.Fullname = strings.TrimSpace(*input.Fullname)
	}
	if input.NIM != nil {
		student.NIM = strings.TrimSpace(*input.NIM)
	}
	if input.DateOfBirth != nil {
		student.DateOfBirth = *input.DateOfBirth
	}
	if student.Fullname == "" || student.NIM == "" {
		return nil, apperrors.NewValidationError("fullname and nim cannot be empty", nil)
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, writeLookupError("student", err)
	}
	s.logger.Info("student updated", zap.String("student_id", student.ID), zap.String("actor_id", actorID))
	s.publish(ctx, events.New(events.EventStudentUpdated, student.ID, actorID, nil))
	return student, nil
}

// Delete archives a student.
func (s *StudentService) Delete(ctx context.Context, actorID, id string) (*domain.Student, error) {
	student, err := s.students.Archive(ctx, id)
	if err != nil {
		return nil, writeLookupError("student", err)
	}
	s.logger.Info("student archived", zap.String("student_id", student.ID), zap.String("actor_id", actorID))
	s.publish(ctx, events.New(events.EventStudentArchived, student.ID, actorID, nil))
	return student, nil
}

func (s *StudentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish student event", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
