package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cforclown/school-admin/internal/events"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository/memory"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

func TestStudentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dob := time.Date(2008, 3, 14, 0, 0, 0, 0, time.UTC)

	_, err := f.students.Create(ctx, "", CreateStudentInput{Fullname: "", NIM: ""})
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, map[string]any{"fullname": "required", "nim": "required"}, domainErr.Details)

	andi, err := f.students.Create(ctx, "actor", CreateStudentInput{Fullname: "Andi", NIM: "2024001", DateOfBirth: dob})
	require.NoError(t, err)
	_, err = f.students.Create(ctx, "actor", CreateStudentInput{Fullname: "Budi", NIM: "2024002", DateOfBirth: dob})
	require.NoError(t, err)

	res, err := f.students.Find(ctx, "", query.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.PageCount)
	assert.Len(t, res.Data, 2)

	res, err = f.students.Find(ctx, "2024002", query.Pagination{Page: 1, Limit: 10, Sort: query.Sort{By: "nim"}})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Budi", res.Data[0].Fullname)

	_, err = f.students.Update(ctx, "", UpdateStudentInput{ID: andi.ID})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	updated, err := f.students.Update(ctx, "", UpdateStudentInput{ID: andi.ID, Fullname: ptr("Andi Saputra")})
	require.NoError(t, err)
	assert.Equal(t, "Andi Saputra", updated.Fullname)
	assert.Equal(t, "2024001", updated.NIM)
	assert.True(t, dob.Equal(updated.DateOfBirth))

	_, err = f.students.Delete(ctx, "", andi.ID)
	require.NoError(t, err)

	_, err = f.students.Get(ctx, andi.ID)
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)

	_, err = f.students.Update(ctx, "", UpdateStudentInput{ID: andi.ID, NIM: ptr("x")})
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)

	_, err = f.students.Delete(ctx, "", andi.ID)
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)

	res, err = f.students.Find(ctx, "andi", query.Pagination{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Zero(t, res.Pagination.PageCount)

	assert.Equal(t, []events.EventType{
		events.EventStudentCreated,
		events.EventStudentCreated,
		events.EventStudentUpdated,
		events.EventStudentArchived,
	}, f.events.types())
}

type failingDispatcher struct{}

func (failingDispatcher) Publish(context.Context, events.Event) error {
	return errors.New("dispatcher closed")
}

func (failingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func TestStudentServiceLogs(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	svc := NewStudentService(memory.NewStore().Students(), failingDispatcher{}, zap.New(core))

	student, err := svc.Create(ctx, "actor", CreateStudentInput{Fullname: "Andi", NIM: "2024001"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "actor", UpdateStudentInput{ID: student.ID})
	require.Error(t, err)

	created := logs.FilterMessage("student created").All()
	require.Len(t, created, 1)
	assert.Equal(t, student.ID, created[0].ContextMap()["student_id"])

	assert.Equal(t, 1, logs.FilterMessage("publish student event").Len())
	rejected := logs.FilterMessage("student update rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "no fields", rejected[0].ContextMap()["reason"])
}
