// Package query builds parameterized WHERE and ORDER BY fragments from
// sparse, user-supplied filters.
//
// Column names only ever come from the per-entity Fields and Sort
// definitions. User input is only ever bound as a parameter.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Strategy selects how a filter value is matched against its column.
type Strategy int

const (
	// Exact compares for equality. A comma-separated value becomes a membership test.
	Exact Strategy = iota
	// ILike is a case-insensitive substring match. With Field.List set, a
	// comma-separated value becomes a membership test instead.
	ILike
	// From is an inclusive lower bound (the *_from request keys).
	From
	// To is an inclusive upper bound (the *_to request keys).
	To
	// Between takes a "from_to" value and compares with BETWEEN. A value
	// without the separator is compared for equality.
	Between
	// In is a membership test against a comma-separated list.
	In
)

// RangeSeparator splits a single Between value into its two bounds.
const RangeSeparator = "_"

// ErrInvalidFilter is returned for malformed filter values such as a
// Between value with an empty bound or more than two parts.
var ErrInvalidFilter = errors.New("invalid filter value")

// Field maps a request key to a column and a matching strategy.
// Cast, when set, is the SQL type bound values are converted to
// (for example "date" or "numeric"). List lets an ILike field take a
// comma-separated list of exact values; leave it off for columns whose
// values may contain commas, such as names and addresses.
type Field struct {
	Column   string
	Strategy Strategy
	Cast     string
	List     bool
}

// Fields is the allow-list of filterable request keys for one entity.
type Fields map[string]Field

// Builder accumulates conjunctive clauses and their bind values.
type Builder struct {
	clauses []string
	args    []any
	next    int
}

// NewBuilder returns a Builder whose first placeholder is $startAt.
func NewBuilder(startAt int) *Builder {
	if startAt < 1 {
		startAt = 1
	}
	return &Builder{next: startAt}
}

// Build applies every recognized, non-empty filter in a stable key order.
// Keys that are not in fields are ignored.
func Build(fields Fields, filters map[string]any, startAt int) (*Builder, error) {
	b := NewBuilder(startAt)

	keys := make([]string, 0, len(filters))
	for key := range filters {
		if _, ok := fields[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := b.Add(fields[key], filters[key]); err != nil {
			return nil, fmt.Errorf("%w: %s", err, key)
		}
	}
	return b, nil
}

// Add appends the clause for one field. Null and empty values are skipped.
func (b *Builder) Add(field Field, value any) error {
	s, ok := scalar(value)
	if !ok {
		return nil
	}

	switch field.Strategy {
	case ILike:
		if field.List && strings.Contains(s, ",") {
			b.addIn(field.Column, s)
			return nil
		}
		b.clauses = append(b.clauses, fmt.Sprintf("%s ILIKE %s", field.Column, b.bind(Contains(s), "")))
	case From:
		b.clauses = append(b.clauses, fmt.Sprintf("%s >= %s", field.Column, b.bind(s, field.Cast)))
	case To:
		b.clauses = append(b.clauses, fmt.Sprintf("%s <= %s", field.Column, b.bind(s, field.Cast)))
	case Between:
		if !strings.Contains(s, RangeSeparator) {
			b.clauses = append(b.clauses, fmt.Sprintf("%s = %s", field.Column, b.bind(s, field.Cast)))
			return nil
		}
		parts := strings.Split(s, RangeSeparator)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return ErrInvalidFilter
		}
		lower := b.bind(strings.TrimSpace(parts[0]), field.Cast)
		upper := b.bind(strings.TrimSpace(parts[1]), field.Cast)
		b.clauses = append(b.clauses, fmt.Sprintf("%s BETWEEN %s AND %s", field.Column, lower, upper))
	case In:
		b.addIn(field.Column, s)
	default:
		if strings.Contains(s, ",") {
			b.addIn(field.Column, s)
			return nil
		}
		b.clauses = append(b.clauses, fmt.Sprintf("%s = %s", field.Column, b.bind(s, field.Cast)))
	}
	return nil
}

func (b *Builder) addIn(column, s string) {
	items := splitList(s)
	if len(items) == 0 {
		return
	}
	b.clauses = append(b.clauses, fmt.Sprintf("%s::text = ANY(%s::text[])", column, b.placeholder(items)))
}

// Title adds a free-text search OR'd across columns. One bind value is
// shared by all columns.
func (b *Builder) Title(value string, columns ...string) {
	value = strings.TrimSpace(value)
	if value == "" || len(columns) == 0 {
		return
	}
	p := b.placeholder(Contains(value))
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", column, p)
	}
	b.clauses = append(b.clauses, "("+strings.Join(parts, " OR ")+")")
}

// Compare adds "column op $n" for a fixed column and operator chosen by the
// caller, never by the request.
func (b *Builder) Compare(column, op string, value any) {
	b.clauses = append(b.clauses, fmt.Sprintf("%s %s %s", column, op, b.placeholder(value)))
}

// Where returns the fragment to append after "WHERE 1=1", or an empty string
// when no clause survived.
func (b *Builder) Where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(b.clauses, " AND ")
}

// Args returns the bind values in placeholder order.
func (b *Builder) Args() []any {
	if len(b.args) == 0 {
		return []any{}
	}
	return b.args
}

// Len reports the number of clauses.
func (b *Builder) Len() int {
	return len(b.clauses)
}

// Bind appends an extra value (for LIMIT/OFFSET or a fixed clause) and
// returns its placeholder.
func (b *Builder) Bind(value any) string {
	return b.placeholder(value)
}

func (b *Builder) bind(value string, cast string) string {
	p := b.placeholder(value)
	if cast == "" {
		return p
	}
	return p + "::text::" + cast
}

func (b *Builder) placeholder(value any) string {
	p := "$" + strconv.Itoa(b.next)
	b.args = append(b.args, value)
	b.next++
	return p
}

// Contains wraps s for an ILIKE substring match, escaping LIKE metacharacters.
func Contains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// scalar renders a decoded JSON value as a string. It reports false for
// null, empty strings and non-scalar values.
func scalar(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case *string:
		if v == nil {
			return "", false
		}
		return scalar(*v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case json.Number:
		return scalar(v.String())
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
