package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cforclown/school-admin/internal/query"
)

func TestBuildPageQuery(t *testing.T) {
	t.Run("search across fields shares one placeholder", func(t *testing.T) {
		sql, args, err := buildPageQuery(userPage, query.Criteria{
			Search:       "Ann_%",
			SearchFields: []string{"username", "email", "fullname", "role.name"},
			SortField:    "fullname",
			Order:        query.Descending,
			Offset:       20,
			Limit:        10,
		})
		require.NoError(t, err)

		assert.Contains(t, sql, "COUNT(*) OVER () AS total")
		assert.Contains(t, sql, "u.archived = FALSE")
		assert.Contains(t, sql, "LEFT JOIN roles r ON r.id = u.role_id AND r.archived = FALSE")
		assert.Contains(t, sql, `LOWER(COALESCE(u.username, '')) LIKE $1`)
		assert.Contains(t, sql, `LOWER(COALESCE(r.name, '')) LIKE $1`)
		assert.Contains(t, sql, "ORDER BY u.fullname DESC, u.id ASC LIMIT $2 OFFSET $3")
		assert.Equal(t, []any{`%ann\_\%%`, 10, 20}, args)
	})

	t.Run("empty search matches everything non archived", func(t *testing.T) {
		sql, args, err := buildPageQuery(studentPage, query.Criteria{
			SearchFields: []string{"fullname"},
			SortField:    "fullname",
			Order:        query.Ascending,
			Limit:        5,
		})
		require.NoError(t, err)

		assert.NotContains(t, sql, "LIKE")
		assert.Contains(t, sql, "WHERE s.archived = FALSE ORDER BY s.fullname ASC")
		assert.Equal(t, []any{5, 0}, args)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		_, _, err := buildPageQuery(rolePage, query.Criteria{SortField: "password", Limit: 1})
		assert.Error(t, err)

		_, _, err = buildPageQuery(rolePage, query.Criteria{Search: "x", SearchFields: []string{"secret"}, SortField: "name", Limit: 1})
		assert.Error(t, err)
	})
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("0b6f3b5e-6b39-4f39-9f5d-2a3c1f0e8d11"))
	assert.False(t, validID("roleB"))
}
