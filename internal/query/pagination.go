package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SortOrder is the direction of a sort. The numeric values match the legacy
// wire format (1 ascending, -1 descending).
type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

// Valid reports whether o is a known direction.
func (o SortOrder) Valid() bool {
	return o == Ascending || o == Descending
}

func (o SortOrder) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// MarshalJSON encodes the order as "asc" or "desc".
func (o SortOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts "asc"/"desc" (and long forms) as well as 1/-1.
// A null or empty value leaves the order unset.
func (o *SortOrder) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "":
			*o = 0
		case "asc", "ascending", "1":
			*o = Ascending
		case "desc", "descending", "-1":
			*o = Descending
		default:
			return fmt.Errorf("invalid sort order %q", raw)
		}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid sort order %s", data)
	}
	switch SortOrder(n) {
	case Ascending, Descending:
		*o = SortOrder(n)
	default:
		return fmt.Errorf("invalid sort order %d", n)
	}
	return nil
}

// Sort selects the field and direction of a listing.
type Sort struct {
	By    string    `json:"by"`
	Order SortOrder `json:"order"`
}

// Pagination is the client-supplied paging request.
type Pagination struct {
	Page  int  `json:"page"`
	Limit int  `json:"limit"`
	Sort  Sort `json:"sort"`
}

// PageInfo echoes the request pagination plus the computed page count.
type PageInfo struct {
	Pagination
	PageCount int `json:"pageCount"`
}

// PageResult is the shape returned by every list endpoint.
type PageResult[T any] struct {
	Query      string   `json:"query"`
	Pagination PageInfo `json:"pagination"`
	Data       []T      `json:"data"`
}
