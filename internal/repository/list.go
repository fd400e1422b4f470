package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stwalsh4118/debtdesk/api/internal/database"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/pagination"
	"github.com/stwalsh4118/debtdesk/api/internal/query"
)

// DefaultBatchSize is the number of rows per multi-row INSERT statement.
const DefaultBatchSize = 100

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// ListFilter is an offset list request. Values holds the raw filter keys
// from the request body; keys outside the entity's allow-list are ignored.
type ListFilter struct {
	Values        map[string]any
	Title         string
	SortBy        string
	SortDirection string
	Page          pagination.Params
}

// CursorFilter is a cursor list request over an append-only log table.
type CursorFilter struct {
	Values map[string]any
	Cursor pagination.Cursor
}

// listSource describes the relation an entity list is read from. Columns
// and From are constants chosen by the repository, never by the request.
type listSource struct {
	Columns string
	From    string
	Fields  query.Fields
	Sort    query.Sort
	Title   []string
}

// where builds the filter fragment for f, including the free-text title.
func (s listSource) where(values map[string]any, title string) (*query.Builder, error) {
	b, err := query.Build(s.Fields, values, 1)
	if err != nil {
		return nil, err
	}
	b.Title(title, s.Title...)
	return b, nil
}

// offsetPage runs an offset list query. The page rows come back as one
// JSON array together with the window total, so a page is one round trip.
// When the page is past the end the total is counted separately.
func offsetPage[T any](ctx context.Context, q database.Querier, src listSource, f ListFilter) (models.Page[T], error) {
	b, err := src.where(f.Values, f.Title)
	if err != nil {
		return models.Page[T]{}, err
	}

	filterArgs := append([]any(nil), b.Args()...)
	where := b.Where()
	orderBy := src.Sort.OrderBy(f.SortBy, f.SortDirection)
	limit := b.Bind(f.Page.Limit)
	offset := b.Bind(f.Page.Offset)

	sql := fmt.Sprintf(`
		SELECT COALESCE(json_agg(p ORDER BY p.rn), '[]'::json), COALESCE(MAX(p.total_count), 0)
		FROM (
			SELECT %s, ROW_NUMBER() OVER (%s) AS rn, COUNT(*) OVER () AS total_count
			FROM %s
			WHERE 1=1%s
			%s
			LIMIT %s OFFSET %s
		) p`, src.Columns, orderBy, src.From, where, orderBy, limit, offset)

	var raw []byte
	var total int64
	if err := q.QueryRow(ctx, sql, b.Args()...).Scan(&raw, &total); err != nil {
		return models.Page[T]{}, fmt.Errorf("failed to query %s page: %w", src.From, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return models.Page[T]{}, fmt.Errorf("failed to decode %s page: %w", src.From, err)
	}

	if len(items) == 0 && f.Page.Offset > 0 {
		countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", src.From, where)
		if err := q.QueryRow(ctx, countSQL, filterArgs...).Scan(&total); err != nil {
			return models.Page[T]{}, fmt.Errorf("failed to count %s: %w", src.From, err)
		}
	}

	return pagination.NewPage(items, int(total), f.Page), nil
}

// cursorPage runs a cursor list query ordered by id.
func cursorPage[T any](ctx context.Context, q database.Querier, src listSource, f CursorFilter, idOf func(T) int64) (models.CursorPage[T], error) {
	b, err := src.where(f.Values, "")
	if err != nil {
		return models.CursorPage[T]{}, err
	}
	tail := f.Cursor.Apply(b, "t.id")

	sql := fmt.Sprintf(`
		SELECT COALESCE(json_agg(p ORDER BY p.id %s), '[]'::json)
		FROM (
			SELECT %s
			FROM %s
			WHERE 1=1%s%s
		) p`, f.Cursor.Dir, src.Columns, src.From, b.Where(), tail)

	var raw []byte
	if err := q.QueryRow(ctx, sql, b.Args()...).Scan(&raw); err != nil {
		return models.CursorPage[T]{}, fmt.Errorf("failed to query %s: %w", src.From, err)
	}

	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return models.CursorPage[T]{}, fmt.Errorf("failed to decode %s: %w", src.From, err)
	}
	return pagination.BuildPage(rows, f.Cursor, idOf), nil
}

// getOne decodes the single row_to_json value returned by sql.
// Returns nil, nil when no row matches.
func getOne[T any](ctx context.Context, q database.Querier, sql string, args ...any) (*T, error) {
	var raw []byte
	if err := q.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	return &v, nil
}

// insertBatches runs prefix + VALUES (...), (...) + suffix once per batch of
// rows. Batches run sequentially on q, so inside a transaction a failing
// batch rolls back the ones before it.
func insertBatches(ctx context.Context, q database.Querier, prefix, suffix string, rows [][]any, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	inserted := 0
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		b := query.NewBuilder(1)
		tuples := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			placeholders := make([]string, len(row))
			for i, v := range row {
				placeholders[i] = b.Bind(v)
			}
			tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
		}

		sql := prefix + " VALUES " + strings.Join(tuples, ", ") + " " + suffix
		tag, err := q.Exec(ctx, sql, b.Args()...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert rows %d-%d: %w", start+1, end, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// dateArg binds an unset date as SQL NULL.
func dateArg(d models.Date) any {
	if !d.Valid() {
		return nil
	}
	return d.Time
}
