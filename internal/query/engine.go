package query

import (
	"context"
	"fmt"
	"math"
	"strings"

	apperrors "github.com/cforclown/school-admin/pkg/util"
)

// DefaultMaxLimit bounds the page size when Options.MaxLimit is unset.
const DefaultMaxLimit = 100

// Options parameterize an Engine for one resource.
type Options struct {
	// Searchable lists store fields matched against the free-text query.
	Searchable []string
	// Sortable maps wire sort names to store fields.
	Sortable map[string]string
	// DefaultSort is the wire sort name used when the client sends none.
	DefaultSort string
	MaxLimit    int
}

// Engine runs searchable, sortable, paginated lookups against a Source.
type Engine[T any] struct {
	opts   Options
	source Source[T]
}

// NewEngine builds an engine. It panics when DefaultSort is not in the
// sortable whitelist, which is a wiring mistake.
func NewEngine[T any](source Source[T], opts Options) *Engine[T] {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = DefaultMaxLimit
	}
	if _, ok := opts.Sortable[opts.DefaultSort]; !ok {
		panic(fmt.Sprintf("query: default sort %q is not sortable", opts.DefaultSort))
	}
	return &Engine[T]{opts: opts, source: source}
}

// Find returns the requested page of records matching search.
func (e *Engine[T]) Find(ctx context.Context, search string, pagination Pagination) (*PageResult[T], error) {
	normalized, sortField, err := e.normalize(pagination)
	if err != nil {
		return nil, err
	}

	result := &PageResult[T]{
		Query:      search,
		Pagination: PageInfo{Pagination: normalized},
		Data:       []T{},
	}
	skip, ok := offset(normalized)
	if !ok {
		// No store can hold that many rows, so the page is past the end.
		return result, nil
	}

	page, err := e.source.FindPage(ctx, Criteria{
		Search:       strings.TrimSpace(search),
		SearchFields: e.opts.Searchable,
		SortField:    sortField,
		Order:        normalized.Sort.Order,
		Offset:       skip,
		Limit:        normalized.Limit,
	})
	if err != nil {
		return nil, err
	}

	// A nonzero total with an empty slice (page past the end) is reported as
	// no results, same as a zero total.
	if page.Total > 0 && len(page.Items) > 0 {
		result.Data = page.Items
		result.Pagination.PageCount = pageCount(page.Total, normalized.Limit)
	}
	return result, nil
}

func (e *Engine[T]) normalize(p Pagination) (Pagination, string, error) {
	details := map[string]any{}
	if p.Page < 1 {
		details["page"] = "must be at least 1"
	}
	if p.Limit < 1 {
		details["limit"] = "must be at least 1"
	} else if p.Limit > e.opts.MaxLimit {
		details["limit"] = fmt.Sprintf("must be at most %d", e.opts.MaxLimit)
	}

	if p.Sort.By == "" {
		p.Sort.By = e.opts.DefaultSort
	}
	sortField, ok := e.opts.Sortable[p.Sort.By]
	if !ok {
		details["sort.by"] = "unsupported sort field"
	}
	if p.Sort.Order == 0 {
		p.Sort.Order = Ascending
	} else if !p.Sort.Order.Valid() {
		details["sort.order"] = "must be asc or desc"
	}

	if len(details) > 0 {
		return Pagination{}, "", apperrors.NewValidationError("invalid pagination", details)
	}
	return p, sortField, nil
}

// offset reports the number of rows to skip, or false when it does not fit in an int.
func offset(p Pagination) (int, bool) {
	if p.Page-1 > math.MaxInt/p.Limit {
		return 0, false
	}
	return (p.Page - 1) * p.Limit, true
}

func pageCount(total, limit int) int {
	return (total + limit - 1) / limit
}
