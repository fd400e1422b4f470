// Package pagination implements offset pagination for entity lists and
// id-cursor pagination for append-only logs.
package pagination

import (
	"math"
	"strings"

	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/query"
)

const (
	// DefaultLimit is used when the client sends no or a non-positive limit.
	DefaultLimit = 16
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Params is a normalized offset page request.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Offset normalizes a 1-based page and limit and computes the row offset.
// Pages past the end are not rejected.
func Offset(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// NewPage wraps one page of items with the total row count.
func NewPage[T any](items []T, total int, p Params) models.Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 && p.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return models.Page[T]{
		Items:       items,
		TotalItems:  total,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
	}
}

// Cursor is a cursor page request: the last seen id, direction and size.
type Cursor struct {
	After *int64
	Dir   string
	Limit int
}

// NewCursor normalizes the direction (default DESC) and limit.
func NewCursor(after *int64, sort string, limit int) Cursor {
	dir := query.Desc
	if strings.EqualFold(strings.TrimSpace(sort), query.Asc) {
		dir = query.Asc
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Cursor{After: after, Dir: dir, Limit: limit}
}

// Apply adds the strict id comparison to b when a cursor is present and
// returns the ORDER BY/LIMIT tail. One extra row is fetched to detect a next page.
func (c Cursor) Apply(b *query.Builder, idColumn string) string {
	if c.After != nil {
		op := "<"
		if c.Dir == query.Asc {
			op = ">"
		}
		b.Compare(idColumn, op, *c.After)
	}
	return " ORDER BY " + idColumn + " " + c.Dir + " LIMIT " + b.Bind(c.Limit+1)
}

// BuildPage turns the limit+1 fetched rows into a cursor page.
//
// next is the id of the last row kept when an extra row was fetched.
// prev is the id of the first row, and only when the request carried a cursor.
// Ascending pages are reversed after both are computed.
func BuildPage[T any](rows []T, c Cursor, idOf func(T) int64) models.CursorPage[T] {
	page := models.CursorPage[T]{}

	if len(rows) > c.Limit {
		rows = rows[:c.Limit]
		id := idOf(rows[len(rows)-1])
		page.Next = &id
	}
	if c.After != nil && len(rows) > 0 {
		id := idOf(rows[0])
		page.Prev = &id
	}

	if c.Dir == query.Asc {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	if rows == nil {
		rows = []T{}
	}
	page.Data = rows
	return page
}
