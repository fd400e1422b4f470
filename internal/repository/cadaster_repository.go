package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/debtdesk/api/internal/database"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/query"
)

// cadasterSource is the filter and sort allow-list of ower.cadaster.
var cadasterSource = listSource{
	Columns: "t.*",
	From:    "ower.cadaster t",
	Fields: query.Fields{
		"payer_name":       {Column: "t.payer_name", Strategy: query.ILike},
		"payer_address":    {Column: "t.payer_address", Strategy: query.ILike},
		"tax_address":      {Column: "t.tax_address", Strategy: query.ILike},
		"cadastral_number": {Column: "t.cadastral_number", Strategy: query.ILike, List: true},
		"iban":             {Column: "t.iban", Strategy: query.ILike, List: true},
		"land_tax_from":    {Column: "t.land_tax", Strategy: query.From, Cast: "numeric"},
		"land_tax_to":      {Column: "t.land_tax", Strategy: query.To, Cast: "numeric"},
		"plot_area_from":   {Column: "t.plot_area", Strategy: query.From, Cast: "numeric"},
		"plot_area_to":     {Column: "t.plot_area", Strategy: query.To, Cast: "numeric"},
		"created_at":       {Column: "t.created_at::date", Strategy: query.Between, Cast: "date"},
		"uid":              {Column: "t.uid", Strategy: query.Exact, Cast: "bigint"},
	},
	Sort: query.Sort{
		Allowed: map[string]string{
			"id":               "t.id",
			"payer_name":       "t.payer_name",
			"payer_address":    "t.payer_address",
			"tax_address":      "t.tax_address",
			"cadastral_number": "t.cadastral_number",
			"iban":             "t.iban",
			"land_tax":         "t.land_tax",
			"plot_area":        "t.plot_area",
			"created_at":       "t.created_at",
			"updated_at":       "t.updated_at",
		},
		DefaultField: "id",
		DefaultDir:   query.Desc,
	},
	Title: []string{"t.payer_name", "t.payer_address", "t.tax_address", "t.cadastral_number"},
}

const cadasterColumns = "payer_name, payer_address, iban, plot_area, land_tax, tax_address, cadastral_number, uid"

// CadasterRepository defines data access for land parcels.
type CadasterRepository interface {
	// Filter returns one offset page of parcels.
	Filter(ctx context.Context, f ListFilter) (models.Page[models.CadasterRecord], error)

	// FindByID returns nil, nil when the parcel does not exist.
	FindByID(ctx context.Context, id int64) (*models.CadasterRecord, error)

	// FindByPayerName returns every parcel whose payer name equals name exactly,
	// newest first. An empty slice is not an error.
	FindByPayerName(ctx context.Context, name string) ([]models.CadasterRecord, error)

	// Create inserts a parcel on behalf of uid and returns its id.
	Create(ctx context.Context, uid int64, r *models.CadasterRecord) (int64, error)

	// Update overwrites a parcel. Returns false when it does not exist.
	Update(ctx context.Context, uid int64, r *models.CadasterRecord) (bool, error)

	// Delete removes a parcel. Returns false when it does not exist.
	Delete(ctx context.Context, uid int64, id int64) (bool, error)

	// Upsert inserts parcels in batches inside one transaction, updating rows
	// whose cadastral number already exists. It returns the affected row count.
	Upsert(ctx context.Context, uid int64, records []models.CadasterRecord, batchSize int) (int, error)
}

type cadasterRepository struct {
	db *database.Database
}

// NewCadasterRepository creates a new instance of CadasterRepository.
func NewCadasterRepository(db *database.Database) CadasterRepository {
	return &cadasterRepository{db: db}
}

func (r *cadasterRepository) Filter(ctx context.Context, f ListFilter) (models.Page[models.CadasterRecord], error) {
	return offsetPage[models.CadasterRecord](ctx, r.db.Pool, cadasterSource, f)
}

func (r *cadasterRepository) FindByID(ctx context.Context, id int64) (*models.CadasterRecord, error) {
	record, err := getOne[models.CadasterRecord](ctx, r.db.Pool,
		`SELECT row_to_json(t) FROM ower.cadaster t WHERE t.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query cadaster record %d: %w", id, err)
	}
	return record, nil
}

func (r *cadasterRepository) FindByPayerName(ctx context.Context, name string) ([]models.CadasterRecord, error) {
	records, err := getOne[[]models.CadasterRecord](ctx, r.db.Pool, `
		SELECT COALESCE(json_agg(t ORDER BY t.updated_at DESC, t.id DESC), '[]'::json)
		FROM ower.cadaster t
		WHERE t.payer_name = $1`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcels of %q: %w", name, err)
	}
	if records == nil {
		return []models.CadasterRecord{}, nil
	}
	return *records, nil
}

func (r *cadasterRepository) Create(ctx context.Context, uid int64, rec *models.CadasterRecord) (int64, error) {
	var id int64
	err := r.db.WithActorTx(ctx, uid, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO ower.cadaster (`+cadasterColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			cadasterArgs(uid, rec)...,
		).Scan(&id)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: cadastral number %s", ErrDuplicate, rec.CadastralNumber)
		}
		return 0, fmt.Errorf("failed to insert cadaster record: %w", err)
	}
	return id, nil
}

func (r *cadasterRepository) Update(ctx context.Context, uid int64, rec *models.CadasterRecord) (bool, error) {
	var affected int64
	err := r.db.WithActorTx(ctx, uid, func(tx pgx.Tx) error {
		args := append(cadasterArgs(uid, rec), rec.ID)
		tag, err := tx.Exec(ctx, `
			UPDATE ower.cadaster SET
				payer_name = $1, payer_address = $2, iban = $3, plot_area = $4,
				land_tax = $5, tax_address = $6, cadastral_number = $7, uid = $8,
				updated_at = now()
			WHERE id = $9`, args...)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("%w: cadastral number %s", ErrDuplicate, rec.CadastralNumber)
		}
		return false, fmt.Errorf("failed to update cadaster record %d: %w", rec.ID, err)
	}
	return affected > 0, nil
}

func (r *cadasterRepository) Delete(ctx context.Context, uid int64, id int64) (bool, error) {
	var affected int64
	err := r.db.WithActorTx(ctx, uid, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM ower.cadaster WHERE id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete cadaster record %d: %w", id, err)
	}
	return affected > 0, nil
}

func (r *cadasterRepository) Upsert(ctx context.Context, uid int64, records []models.CadasterRecord, batchSize int) (int, error) {
	rows := make([][]any, len(records))
	for i := range records {
		rows[i] = cadasterArgs(uid, &records[i])
	}

	var affected int
	err := r.db.WithActorTx(ctx, uid, func(tx pgx.Tx) error {
		n, err := insertBatches(ctx, tx,
			`INSERT INTO ower.cadaster (`+cadasterColumns+`)`,
			`ON CONFLICT (cadastral_number) DO UPDATE SET
				payer_name = EXCLUDED.payer_name,
				payer_address = EXCLUDED.payer_address,
				iban = EXCLUDED.iban,
				plot_area = EXCLUDED.plot_area,
				land_tax = EXCLUDED.land_tax,
				tax_address = EXCLUDED.tax_address,
				uid = EXCLUDED.uid,
				updated_at = now()`,
			rows, batchSize)
		affected = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import cadaster records: %w", err)
	}
	return affected, nil
}

// cadasterArgs returns the bind values in cadasterColumns order.
func cadasterArgs(uid int64, rec *models.CadasterRecord) []any {
	return []any{
		rec.PayerName,
		rec.PayerAddress,
		nullable(rec.IBAN),
		rec.PlotArea.String(),
		rec.LandTax.String(),
		rec.TaxAddress,
		rec.CadastralNumber,
		uid,
	}
}
