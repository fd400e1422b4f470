package query

import (
	"strings"
)

// Sort directions.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// PrimaryKey is the sort key appended as a tiebreaker.
const PrimaryKey = "id"

// Sort is the allow-list of sortable request keys for one entity.
// Allowed maps a request key to its column expression.
type Sort struct {
	Allowed      map[string]string
	DefaultField string
	DefaultDir   string
}

// Resolve returns the effective sort key and direction. Unknown keys and
// directions are replaced by the defaults without error.
func (s Sort) Resolve(field, dir string) (string, string) {
	key := strings.TrimSpace(field)
	if _, ok := s.Allowed[key]; !ok {
		key = s.DefaultField
	}
	return key, normalizeDir(dir, s.DefaultDir)
}

// OrderBy renders the ORDER BY clause for the requested sort. When the
// effective key is not the primary key, the primary key is appended in the
// same direction so pagination is deterministic.
func (s Sort) OrderBy(field, dir string) string {
	key, direction := s.Resolve(field, dir)
	column := s.Allowed[key]
	if column == "" {
		column = key
	}

	clause := "ORDER BY " + column + " " + direction
	if key != PrimaryKey {
		pk := s.Allowed[PrimaryKey]
		if pk == "" {
			pk = PrimaryKey
		}
		clause += ", " + pk + " " + direction
	}
	return clause
}

func normalizeDir(dir, fallback string) string {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	}
	if strings.EqualFold(fallback, Asc) {
		return Asc
	}
	return Desc
}
