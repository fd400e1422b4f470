package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/debtdesk/api/internal/database"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/query"
)

// BlacklistTable is the audited table name of the IP blacklist.
const BlacklistTable = "black_list"

var logFields = query.Fields{
	"schema_name":     {Column: "t.schema_name", Strategy: query.Exact},
	"table_name":      {Column: "t.table_name", Strategy: query.Exact},
	"action":          {Column: "t.action", Strategy: query.Exact},
	"uid":             {Column: "t.uid", Strategy: query.Exact, Cast: "bigint"},
	"row_pk_id":       {Column: "t.row_pk_id", Strategy: query.Exact, Cast: "bigint"},
	"client_addr":     {Column: "host(t.client_addr)", Strategy: query.ILike, List: true},
	"action_stamp_tx": {Column: "t.action_stamp_tx::date", Strategy: query.Between, Cast: "date"},
	"date_from":       {Column: "t.action_stamp_tx::date", Strategy: query.From, Cast: "date"},
	"date_to":         {Column: "t.action_stamp_tx::date", Strategy: query.To, Cast: "date"},
}

const logColumns = `t.id, t.schema_name, t.table_name, t.action, t.row_pk_id, t.uid,
	t.old_data, t.new_data, host(t.client_addr) AS client_addr, t.action_stamp_tx`

var logSource = listSource{
	Columns: logColumns,
	From:    "log.logger t",
	Fields:  logFields,
}

// detailedLogSource adds free-text search over the row images and a sort
// allow-list for the offset search.
var detailedLogSource = listSource{
	Columns: logColumns,
	From:    "log.logger t",
	Fields:  logFields,
	Sort: query.Sort{
		Allowed: map[string]string{
			"id":              "t.id",
			"action_stamp_tx": "t.action_stamp_tx",
			"table_name":      "t.table_name",
			"action":          "t.action",
			"uid":             "t.uid",
			"row_pk_id":       "t.row_pk_id",
		},
		DefaultField: "id",
		DefaultDir:   query.Desc,
	},
	Title: []string{"t.table_name", "t.old_data::text", "t.new_data::text"},
}

var secureSource = listSource{
	Columns: "t.id, t.uid, host(t.ip) AS ip, t.action, t.info, t.date",
	From:    "log.secure t",
	Fields: query.Fields{
		"ip":     {Column: "host(t.ip)", Strategy: query.ILike, List: true},
		"action": {Column: "t.action", Strategy: query.Exact},
		"uid":    {Column: "t.uid", Strategy: query.Exact, Cast: "bigint"},
		"info":   {Column: "t.info", Strategy: query.ILike},
		"date":   {Column: "t.date::date", Strategy: query.Between, Cast: "date"},
	},
}

var blacklistSource = listSource{
	Columns: "t.id, host(t.ip) AS ip, t.details, t.uid, t.created_at",
	From:    "log.black_list t",
	Fields: query.Fields{
		"ip":         {Column: "host(t.ip)", Strategy: query.ILike, List: true},
		"details":    {Column: "t.details", Strategy: query.ILike},
		"uid":        {Column: "t.uid", Strategy: query.Exact, Cast: "bigint"},
		"created_at": {Column: "t.created_at::date", Strategy: query.Between, Cast: "date"},
	},
}

// LogRepository defines access to the audit log, security events and the
// IP blacklist. Log rows are written by database triggers, never here.
type LogRepository interface {
	// List returns one cursor page of audit rows.
	List(ctx context.Context, f CursorFilter) (models.CursorPage[models.LogEntry], error)

	// FindByID returns nil, nil when the audit row does not exist.
	FindByID(ctx context.Context, id int64) (*models.LogEntry, error)

	// Detailed returns one offset page of audit rows with free-text search.
	Detailed(ctx context.Context, f ListFilter) (models.Page[models.LogEntry], error)

	// Secure returns one cursor page of authentication events.
	Secure(ctx context.Context, f CursorFilter) (models.CursorPage[models.SecureEntry], error)

	// Blacklist returns one cursor page of blocked addresses.
	Blacklist(ctx context.Context, f CursorFilter) (models.CursorPage[models.BlacklistEntry], error)

	// AddBlacklist blocks ip on behalf of uid. Returns ErrDuplicate when the
	// address is already blocked.
	AddBlacklist(ctx context.Context, uid int64, ip, details string) (int64, error)

	// DeleteBlacklist unblocks an entry and attributes the DELETE audit row
	// to uid. Returns false when the entry does not exist.
	DeleteBlacklist(ctx context.Context, uid int64, id int64) (bool, error)

	// IsBlacklisted reports whether ip is blocked.
	IsBlacklisted(ctx context.Context, ip string) (bool, error)
}

type logRepository struct {
	db *database.Database
}

// NewLogRepository creates a new instance of LogRepository.
func NewLogRepository(db *database.Database) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) List(ctx context.Context, f CursorFilter) (models.CursorPage[models.LogEntry], error) {
	return cursorPage(ctx, r.db.Pool, logSource, f, func(e models.LogEntry) int64 { return e.ID })
}

func (r *logRepository) FindByID(ctx context.Context, id int64) (*models.LogEntry, error) {
	entry, err := getOne[models.LogEntry](ctx, r.db.Pool, `
		SELECT row_to_json(p) FROM (
			SELECT `+logColumns+` FROM log.logger t WHERE t.id = $1
		) p`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entry %d: %w", id, err)
	}
	return entry, nil
}

func (r *logRepository) Detailed(ctx context.Context, f ListFilter) (models.Page[models.LogEntry], error) {
	return offsetPage[models.LogEntry](ctx, r.db.Pool, detailedLogSource, f)
}

func (r *logRepository) Secure(ctx context.Context, f CursorFilter) (models.CursorPage[models.SecureEntry], error) {
	return cursorPage(ctx, r.db.Pool, secureSource, f, func(e models.SecureEntry) int64 { return e.ID })
}

func (r *logRepository) Blacklist(ctx context.Context, f CursorFilter) (models.CursorPage[models.BlacklistEntry], error) {
	return cursorPage(ctx, r.db.Pool, blacklistSource, f, func(e models.BlacklistEntry) int64 { return e.ID })
}

func (r *logRepository) AddBlacklist(ctx context.Context, uid int64, ip, details string) (int64, error) {
	var id int64
	err := r.db.WithActorTx(ctx, uid, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO log.black_list (ip, details, uid)
			VALUES ($1::inet, $2, $3)
			RETURNING id`, ip, details, uid).Scan(&id)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: ip %s", ErrDuplicate, ip)
		}
		return 0, fmt.Errorf("failed to blacklist %s: %w", ip, err)
	}
	return id, nil
}

// DeleteBlacklist runs the delete and the audit attribution in one
// transaction so the DELETE row never stays anonymous.
func (r *logRepository) DeleteBlacklist(ctx context.Context, uid int64, id int64) (bool, error) {
	var found bool
	err := r.db.WithActorTx(ctx, uid, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM log.black_list WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if found = tag.RowsAffected() > 0; !found {
			return nil
		}
		_, err = tx.Exec(ctx, `
			UPDATE log.logger SET uid = $1
			WHERE row_pk_id = $2 AND action = 'DELETE' AND table_name = $3`,
			uid, id, BlacklistTable)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove blacklist entry %d: %w", id, err)
	}
	return found, nil
}

func (r *logRepository) IsBlacklisted(ctx context.Context, ip string) (bool, error) {
	var blocked bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM log.black_list WHERE host(ip) = $1)`, ip,
	).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist for %s: %w", ip, err)
	}
	return blocked, nil
}
