package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cforclown/school-admin/internal/query"
)

// fieldFunc returns the value of a logical field for a record.
type fieldFunc[T any] func(item T, field string) (any, bool)

func paginate[T any](items []T, c query.Criteria, field fieldFunc[T]) (query.Page[T], error) {
	if len(items) > 0 {
		if _, ok := field(items[0], c.SortField); !ok {
			return query.Page[T]{}, fmt.Errorf("unknown sort field %q", c.SortField)
		}
	}

	needle := strings.ToLower(c.Search)
	matched := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := matches(item, needle, c.SearchFields, field)
		if err != nil {
			return query.Page[T]{}, err
		}
		if ok {
			matched = append(matched, item)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, _ := field(matched[i], c.SortField)
		b, _ := field(matched[j], c.SortField)
		cmp := compare(a, b)
		if cmp == 0 {
			ida, _ := field(matched[i], "id")
			idb, _ := field(matched[j], "id")
			return compare(ida, idb) < 0
		}
		if c.Order == query.Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	page := query.Page[T]{Total: len(matched), Items: []T{}}
	if c.Offset < 0 || c.Offset >= len(matched) || c.Limit < 1 {
		return page, nil
	}
	end := len(matched)
	if c.Limit < end-c.Offset {
		end = c.Offset + c.Limit
	}
	page.Items = append(page.Items, matched[c.Offset:end]...)
	return page, nil
}

func matches[T any](item T, needle string, fields []string, field fieldFunc[T]) (bool, error) {
	if needle == "" || len(fields) == 0 {
		return true, nil
	}
	for _, name := range fields {
		value, ok := field(item, name)
		if !ok {
			return false, fmt.Errorf("unknown search field %q", name)
		}
		if strings.Contains(strings.ToLower(text(value)), needle) {
			return true, nil
		}
	}
	return false, nil
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	default:
		return ""
	}
}

func compare(a, b any) int {
	if ta, ok := a.(time.Time); ok {
		tb, _ := b.(time.Time)
		return ta.Compare(tb)
	}
	return strings.Compare(strings.ToLower(text(a)), strings.ToLower(text(b)))
}
