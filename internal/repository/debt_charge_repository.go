package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/debtdesk/api/internal/database"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/query"
)

var debtChargeSource = listSource{
	Columns: "t.*",
	From:    "ower.tax_charges t",
	Fields: query.Fields{
		"tax_number":         {Column: "t.tax_number", Strategy: query.ILike, List: true},
		"payer_name":         {Column: "t.payer_name", Strategy: query.ILike},
		"payment_info":       {Column: "t.payment_info", Strategy: query.ILike},
		"account_number":     {Column: "t.account_number", Strategy: query.ILike, List: true},
		"full_document_id":   {Column: "t.full_document_id", Strategy: query.ILike, List: true},
		"tax_classifier":     {Column: "t.tax_classifier", Strategy: query.Exact},
		"status":             {Column: "t.status", Strategy: query.Exact},
		"document_date":      {Column: "t.document_date", Strategy: query.Between, Cast: "date"},
		"document_date_from": {Column: "t.document_date", Strategy: query.From, Cast: "date"},
		"document_date_to":   {Column: "t.document_date", Strategy: query.To, Cast: "date"},
		"delivery_date":      {Column: "t.delivery_date", Strategy: query.Between, Cast: "date"},
		"delivery_date_from": {Column: "t.delivery_date", Strategy: query.From, Cast: "date"},
		"delivery_date_to":   {Column: "t.delivery_date", Strategy: query.To, Cast: "date"},
		"amount_from":        {Column: "t.amount", Strategy: query.From, Cast: "numeric"},
		"amount_to":          {Column: "t.amount", Strategy: query.To, Cast: "numeric"},
	},
	Sort: query.Sort{
		Allowed: map[string]string{
			"id":               "t.id",
			"tax_number":       "t.tax_number",
			"payer_name":       "t.payer_name",
			"tax_classifier":   "t.tax_classifier",
			"full_document_id": "t.full_document_id",
			"document_date":    "t.document_date",
			"delivery_date":    "t.delivery_date",
			"amount":           "t.amount",
			"status":           "t.status",
		},
		DefaultField: "id",
		DefaultDir:   query.Desc,
	},
	Title: []string{"t.payer_name", "t.tax_number", "t.full_document_id"},
}

// DebtChargeRepository defines data access for issued tax notices.
type DebtChargeRepository interface {
	// Filter returns one offset page of charges.
	Filter(ctx context.Context, f ListFilter) (models.Page[models.DebtCharge], error)

	// FindByID returns nil, nil when the charge does not exist.
	FindByID(ctx context.Context, id int64) (*models.DebtCharge, error)

	// ReplaceAll swaps the whole table for charges in one transaction:
	// truncate with identity reset, then batched inserts. Any failure rolls
	// back to the previous contents.
	ReplaceAll(ctx context.Context, uid int64, charges []models.DebtCharge, batchSize int) (int, error)
}

type debtChargeRepository struct {
	db *database.Database
}

// NewDebtChargeRepository creates a new instance of DebtChargeRepository.
func NewDebtChargeRepository(db *database.Database) DebtChargeRepository {
	return &debtChargeRepository{db: db}
}

func (r *debtChargeRepository) Filter(ctx context.Context, f ListFilter) (models.Page[models.DebtCharge], error) {
	return offsetPage[models.DebtCharge](ctx, r.db.Pool, debtChargeSource, f)
}

func (r *debtChargeRepository) FindByID(ctx context.Context, id int64) (*models.DebtCharge, error) {
	charge, err := getOne[models.DebtCharge](ctx, r.db.Pool,
		`SELECT row_to_json(t) FROM ower.tax_charges t WHERE t.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt charge %d: %w", id, err)
	}
	return charge, nil
}

func (r *debtChargeRepository) ReplaceAll(ctx context.Context, uid int64, charges []models.DebtCharge, batchSize int) (int, error) {
	rows := make([][]any, len(charges))
	for i, c := range charges {
		rows[i] = []any{
			c.TaxNumber,
			c.PayerName,
			c.PaymentInfo,
			c.TaxClassifier,
			c.AccountNumber,
			c.FullDocumentID,
			dateArg(c.DocumentDate),
			dateArg(c.DeliveryDate),
			c.Amount.String(),
			c.Status,
		}
	}

	var inserted int
	err := r.db.WithActorTx(ctx, uid, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE ower.tax_charges RESTART IDENTITY`); err != nil {
			return fmt.Errorf("failed to truncate debt charges: %w", err)
		}
		n, err := insertBatches(ctx, tx, `
			INSERT INTO ower.tax_charges (
				tax_number, payer_name, payment_info, tax_classifier, account_number,
				full_document_id, document_date, delivery_date, amount, status
			)`, "", rows, batchSize)
		inserted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace debt charges: %w", err)
	}
	return inserted, nil
}
