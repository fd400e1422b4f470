package models

import (
	"github.com/shopspring/decimal"
)

// TaxDebtor is one taxpayer-period snapshot from the periodic debt load.
// The five debt columns are nullable; TotalDebt is derived and never stored.
type TaxDebtor struct {
	Date               Date                `json:"date"`
	NonResidentialDebt decimal.NullDecimal `json:"non_residential_debt"`
	ResidentialDebt    decimal.NullDecimal `json:"residential_debt"`
	LandDebt           decimal.NullDecimal `json:"land_debt"`
	OrendaDebt         decimal.NullDecimal `json:"orenda_debt"`
	MPZ                decimal.NullDecimal `json:"mpz"`
	TotalDebt          decimal.Decimal     `json:"total_debt"`
	Name               string              `json:"name"`
	Identification     string              `json:"identification"`
	CadastralNumber    string              `json:"cadastral_number"`
	TaxAddress         string              `json:"tax_address"`
	ID                 int64               `json:"id"`
}
