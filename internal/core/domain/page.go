package domain

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery is a normalised list request shared by every entity.
type PageQuery struct {
	Page     int
	PageSize int
	Q        string
	Status   *Status
}

// NewPageQuery applies the pagination policy: page defaults to 1, pageSize
// defaults to DefaultPageSize and is clamped to [1, MaxPageSize]. q is trimmed
// and status is dropped unless it is NORMAL or VOID.
func NewPageQuery(page, pageSize int, q, status string) PageQuery {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize < 1:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}

	pq := PageQuery{Page: page, PageSize: pageSize, Q: strings.TrimSpace(q)}
	if s, ok := ParseStatus(status); ok {
		pq.Status = &s
	}
	return pq
}

// Offset is the number of rows skipped before this page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Pattern returns the ILIKE pattern for Q, or nil when no text filter applies.
func (q PageQuery) Pattern() *string {
	if q.Q == "" {
		return nil
	}
	p := "%" + q.Q + "%"
	return &p
}

// StatusFilter returns the status filter as a nullable string.
func (q PageQuery) StatusFilter() *string {
	if q.Status == nil {
		return nil
	}
	s := string(*q.Status)
	return &s
}

// Page is one page of results. Page and PageSize are the effective values
// used for the query, not the raw input.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// NewPage assembles a Page from a query and its results. Items is never nil
// so it always renders as a JSON array.
func NewPage[T any](q PageQuery, items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}
}
