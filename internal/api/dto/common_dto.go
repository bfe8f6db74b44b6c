package dto

import "github.com/cforclown/school-admin/internal/query"

// FindRequest is the body of every POST /<resource>/find route.
type FindRequest struct {
	Query      string           `json:"query" validate:"max=200"`
	Pagination query.Pagination `json:"pagination"`
}

// MapPage converts the items of a page while keeping its metadata.
func MapPage[T, R any](page *query.PageResult[T], convert func(*T) R) query.PageResult[R] {
	out := query.PageResult[R]{
		Query:      page.Query,
		Pagination: page.Pagination,
		Data:       make([]R, 0, len(page.Data)),
	}
	for i := range page.Data {
		out.Data = append(out.Data, convert(&page.Data[i]))
	}
	return out
}
