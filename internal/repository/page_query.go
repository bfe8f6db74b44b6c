package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cforclown/school-admin/internal/query"
)

// pageTable describes how a collection is laid out for page lookups.
type pageTable struct {
	columns  string
	from     string
	archived string
	tiebreak string
	// fields maps logical field names used by services to SQL expressions.
	fields map[string]string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildPageQuery renders one statement returning the requested slice with the
// filtered total attached to every row, so count and data share a snapshot.
// A page past the end yields no rows and therefore no total.
func buildPageQuery(t pageTable, c query.Criteria) (string, []any, error) {
	sortExpr, ok := t.fields[c.SortField]
	if !ok {
		return "", nil, fmt.Errorf("unknown sort field %q", c.SortField)
	}

	clauses := []string{t.archived + " = FALSE"}
	args := []any{}

	if c.Search != "" && len(c.SearchFields) > 0 {
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(c.Search))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		matches := make([]string, 0, len(c.SearchFields))
		for _, field := range c.SearchFields {
			expr, ok := t.fields[field]
			if !ok {
				return "", nil, fmt.Errorf("unknown search field %q", field)
			}
			matches = append(matches, fmt.Sprintf(`LOWER(COALESCE(%s, '')) LIKE %s ESCAPE '\'`, expr, placeholder))
		}
		clauses = append(clauses, "("+strings.Join(matches, " OR ")+")")
	}

	direction := "ASC"
	if c.Order == query.Descending {
		direction = "DESC"
	}

	args = append(args, c.Limit, c.Offset)
	sql := fmt.Sprintf(`SELECT %s, COUNT(*) OVER () AS total FROM %s WHERE %s ORDER BY %s %s, %s ASC LIMIT $%d OFFSET $%d`,
		t.columns, t.from, strings.Join(clauses, " AND "), sortExpr, direction, t.tiebreak, len(args)-1, len(args))
	return sql, args, nil
}

// validID filters out ids the uuid column would reject with a driver error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
