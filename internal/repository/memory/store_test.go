package memory

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cforclown/school-admin/internal/domain"
	"github.com/cforclown/school-admin/internal/query"
	"github.com/cforclown/school-admin/internal/repository"
)

func TestRoleStoreArchivedExcluded(t *testing.T) {
	ctx := context.Background()
	roles := NewStore().Roles()

	kept := &domain.Role{Name: "teacher", Permissions: domain.PermissionMatrix{domain.ResourceUsers: {View: true}}}
	gone := &domain.Role{Name: "temp"}
	require.NoError(t, roles.Create(ctx, kept))
	require.NoError(t, roles.Create(ctx, gone))

	_, err := roles.Archive(ctx, gone.ID)
	require.NoError(t, err)

	_, err = roles.GetByID(ctx, gone.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = roles.Archive(ctx, gone.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, roles.Update(ctx, gone), repository.ErrNotFound)

	page, err := roles.FindPage(ctx, query.Criteria{SortField: "name", Order: query.Ascending, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "teacher", page.Items[0].Name)

	n, err := roles.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRoleStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	roles := NewStore().Roles()

	role := &domain.Role{Name: "viewer", Permissions: domain.PermissionMatrix{domain.ResourceUsers: {View: true}}}
	require.NoError(t, roles.Create(ctx, role))

	role.Permissions[domain.ResourceUsers] = domain.ActionSet{Delete: true}

	stored, err := roles.GetByID(ctx, role.ID)
	require.NoError(t, err)
	assert.False(t, stored.Permissions[domain.ResourceUsers].Delete)
}

func TestRoleStoreDefault(t *testing.T) {
	ctx := context.Background()
	roles := NewStore().Roles()

	_, err := roles.GetDefault(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	a := &domain.Role{Name: "a", IsDefault: true}
	require.NoError(t, roles.Create(ctx, a))

	def, err := roles.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, def.ID)

	require.NoError(t, roles.ClearDefault(ctx))
	_, err = roles.GetDefault(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStudentFindPage(t *testing.T) {
	ctx := context.Background()
	students := NewStore().Students()
	for _, name := range []string{"Citra", "andi", "Budi", "Anisa"} {
		require.NoError(t, students.Create(ctx, &domain.Student{Fullname: name, NIM: "n-" + name}))
	}

	t.Run("case insensitive search sorted descending", func(t *testing.T) {
		page, err := students.FindPage(ctx, query.Criteria{
			Search:       "AN",
			SearchFields: []string{"fullname"},
			SortField:    "fullname",
			Order:        query.Descending,
			Limit:        10,
		})
		require.NoError(t, err)
		require.Equal(t, 2, page.Total)
		assert.Equal(t, "Anisa", page.Items[0].Fullname)
		assert.Equal(t, "andi", page.Items[1].Fullname)
	})

	t.Run("offset slices after sorting", func(t *testing.T) {
		page, err := students.FindPage(ctx, query.Criteria{SortField: "fullname", Order: query.Ascending, Offset: 2, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Budi", page.Items[0].Fullname)
	})

	t.Run("past the end keeps total but no items", func(t *testing.T) {
		page, err := students.FindPage(ctx, query.Criteria{SortField: "fullname", Offset: 10, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 4, page.Total)
		assert.Empty(t, page.Items)
	})

	t.Run("out of range offsets return no items", func(t *testing.T) {
		for _, c := range []query.Criteria{
			{SortField: "fullname", Offset: -100, Limit: 100},
			{SortField: "fullname", Offset: 3, Limit: math.MaxInt},
			{SortField: "fullname", Offset: math.MaxInt - 10, Limit: 100},
		} {
			page, err := students.FindPage(ctx, c)
			require.NoError(t, err)
			assert.Equal(t, 4, page.Total)
			assert.LessOrEqual(t, len(page.Items), 1)
		}
	})

	t.Run("huge page through the engine is empty", func(t *testing.T) {
		engine := query.NewEngine[domain.Student](students, query.Options{
			Searchable:  []string{"fullname"},
			Sortable:    map[string]string{"fullname": "fullname"},
			DefaultSort: "fullname",
		})
		for _, p := range []int{math.MaxInt, math.MaxInt / 50} {
			result, err := engine.Find(ctx, "", query.Pagination{Page: p, Limit: 100})
			require.NoError(t, err)
			assert.Empty(t, result.Data)
			assert.Equal(t, 0, result.Pagination.PageCount)
		}
	})

	t.Run("unknown fields error", func(t *testing.T) {
		_, err := students.FindPage(ctx, query.Criteria{SortField: "secret", Limit: 5})
		assert.Error(t, err)
		_, err = students.FindPage(ctx, query.Criteria{Search: "x", SearchFields: []string{"secret"}, SortField: "fullname", Limit: 5})
		assert.Error(t, err)
	})
}

func TestUserStoreJoinsRole(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	roles, users := store.Roles(), store.Users()

	teacher := &domain.Role{Name: "Teacher", Description: "teaches"}
	require.NoError(t, roles.Create(ctx, teacher))

	email := "dewi@example.com"
	require.NoError(t, users.Create(ctx, &domain.User{Username: "dewi", Fullname: "Dewi", Email: &email, RoleID: teacher.ID}))
	require.NoError(t, users.Create(ctx, &domain.User{Username: "eko", Fullname: "Eko", RoleID: "missing"}))

	page, err := users.FindPage(ctx, query.Criteria{
		Search:       "teach",
		SearchFields: []string{"username", "email", "fullname", "role.name"},
		SortField:    "username",
		Limit:        10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.NotNil(t, page.Items[0].Role)
	assert.Equal(t, domain.RoleRef{ID: teacher.ID, Name: "Teacher", Description: "teaches"}, *page.Items[0].Role)

	eko, err := users.GetByUsername(ctx, "eko")
	require.NoError(t, err)
	assert.Nil(t, eko.Role)

	taken, err := users.EmailTaken(ctx, "DEWI@example.com", "")
	require.NoError(t, err)
	assert.True(t, taken)

	dewi, err := users.GetByUsername(ctx, "dewi")
	require.NoError(t, err)
	taken, err = users.UsernameTaken(ctx, "dewi", dewi.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = roles.Archive(ctx, teacher.ID)
	require.NoError(t, err)
	dewi, err = users.GetByID(ctx, dewi.ID)
	require.NoError(t, err)
	assert.Nil(t, dewi.Role)
	assert.Equal(t, teacher.ID, dewi.RoleID)
	page, err = users.FindPage(ctx, query.Criteria{
		Search:       "teach",
		SearchFields: []string{"role.name"},
		SortField:    "username",
		Limit:        10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	_, err = users.Archive(ctx, dewi.ID)
	require.NoError(t, err)
	taken, err = users.UsernameTaken(ctx, "dewi", "")
	require.NoError(t, err)
	assert.False(t, taken)
	_, err = users.GetByID(ctx, dewi.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
