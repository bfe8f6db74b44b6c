package query

import "context"

// Criteria is the store-level description of one page lookup. Field names are
// already translated to store fields and are never raw client input.
type Criteria struct {
	Search       string
	SearchFields []string
	SortField    string
	Order        SortOrder
	Offset       int
	Limit        int
}

// Page is what a Source returns: the filtered total and the requested slice.
type Page[T any] struct {
	Total int
	Items []T
}

// Source answers a page lookup over non-archived records in a single round trip.
type Source[T any] interface {
	FindPage(ctx context.Context, criteria Criteria) (Page[T], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, criteria Criteria) (Page[T], error)

// FindPage calls f.
func (f SourceFunc[T]) FindPage(ctx context.Context, criteria Criteria) (Page[T], error) {
	return f(ctx, criteria)
}
