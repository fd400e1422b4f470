package repository

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/debtdesk/api/internal/database"
	"github.com/stwalsh4118/debtdesk/api/internal/debt"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/query"
)

var totalDebtSQL = debt.TotalSQL("t")

// debtorSource is the filter and sort allow-list of ower.debtor. The total
// is derived in the select list and never read from a column.
var debtorSource = listSource{
	Columns: "t.*, " + totalDebtSQL + " AS total_debt",
	From:    "ower.debtor t",
	Fields: query.Fields{
		"name":             {Column: "t.name", Strategy: query.ILike},
		"identification":   {Column: "t.identification", Strategy: query.ILike, List: true},
		"tax_address":      {Column: "t.tax_address", Strategy: query.ILike},
		"cadastral_number": {Column: "t.cadastral_number", Strategy: query.ILike},
		"date":             {Column: "t.date", Strategy: query.Between, Cast: "date"},
		"date_from":        {Column: "t.date", Strategy: query.From, Cast: "date"},
		"date_to":          {Column: "t.date", Strategy: query.To, Cast: "date"},
		"total_debt_from":  {Column: totalDebtSQL, Strategy: query.From, Cast: "numeric"},
		"total_debt_to":    {Column: totalDebtSQL, Strategy: query.To, Cast: "numeric"},
		"land_debt_from":   {Column: "t.land_debt", Strategy: query.From, Cast: "numeric"},
		"land_debt_to":     {Column: "t.land_debt", Strategy: query.To, Cast: "numeric"},
	},
	Sort: query.Sort{
		Allowed: map[string]string{
			"id":                   "t.id",
			"name":                 "t.name",
			"identification":       "t.identification",
			"date":                 "t.date",
			"tax_address":          "t.tax_address",
			"non_residential_debt": "t.non_residential_debt",
			"residential_debt":     "t.residential_debt",
			"land_debt":            "t.land_debt",
			"orenda_debt":          "t.orenda_debt",
			"mpz":                  "t.mpz",
			"total_debt":           totalDebtSQL,
		},
		DefaultField: "name",
		DefaultDir:   query.Asc,
	},
	Title: []string{"t.name", "t.identification", "t.tax_address"},
}

// DebtorRepository defines read access to taxpayer debt snapshots.
// Snapshots are loaded by an external process and never written here.
type DebtorRepository interface {
	// Filter returns one offset page of debtors with total_debt derived.
	Filter(ctx context.Context, f ListFilter) (models.Page[models.TaxDebtor], error)

	// FindByID returns nil, nil when the debtor does not exist.
	FindByID(ctx context.Context, id int64) (*models.TaxDebtor, error)

	// FindLatestByIdentification returns the newest snapshot for a tax number,
	// or nil, nil when there is none.
	FindLatestByIdentification(ctx context.Context, identification string) (*models.TaxDebtor, error)
}

type debtorRepository struct {
	db *database.Database
}

// NewDebtorRepository creates a new instance of DebtorRepository.
func NewDebtorRepository(db *database.Database) DebtorRepository {
	return &debtorRepository{db: db}
}

func (r *debtorRepository) Filter(ctx context.Context, f ListFilter) (models.Page[models.TaxDebtor], error) {
	return offsetPage[models.TaxDebtor](ctx, r.db.Pool, debtorSource, f)
}

func (r *debtorRepository) FindByID(ctx context.Context, id int64) (*models.TaxDebtor, error) {
	debtor, err := getOne[models.TaxDebtor](ctx, r.db.Pool, `
		SELECT row_to_json(p) FROM (
			SELECT `+debtorSource.Columns+` FROM `+debtorSource.From+` WHERE t.id = $1
		) p`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query debtor %d: %w", id, err)
	}
	return debtor, nil
}

// FindLatestByIdentification resolves several snapshots of one taxpayer to
// the newest by date, then by id.
func (r *debtorRepository) FindLatestByIdentification(ctx context.Context, identification string) (*models.TaxDebtor, error) {
	debtor, err := getOne[models.TaxDebtor](ctx, r.db.Pool, `
		SELECT row_to_json(p) FROM (
			SELECT `+debtorSource.Columns+` FROM `+debtorSource.From+`
			WHERE t.identification = $1
			ORDER BY t.date DESC NULLS LAST, t.id DESC
			LIMIT 1
		) p`, identification)
	if err != nil {
		return nil, fmt.Errorf("failed to query debtor by identification: %w", err)
	}
	return debtor, nil
}
