// Package debt computes a taxpayer's total debt and breaks it down into the
// line items printed on debt notices.
package debt

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
)

// Category is one kind of tax debt.
type Category string

// Debt categories in document order.
const (
	NonResidential Category = "non_residential"
	Residential    Category = "residential"
	Land           Category = "land"
	Orenda         Category = "orenda"
	MPZ            Category = "mpz"
)

// Categories lists every category in the order sections are printed.
var Categories = []Category{Land, NonResidential, Residential, Orenda, MPZ}

var labels = map[Category]string{
	NonResidential: "податок на нерухоме майно, відмінне від земельної ділянки, сплачений фізичними особами, які є власниками об'єктів нежитлової нерухомості",
	Residential:    "податок на нерухоме майно, відмінне від земельної ділянки, сплачений фізичними особами, які є власниками об'єктів житлової нерухомості",
	Land:           "земельний податок з фізичних осіб",
	Orenda:         "орендна плата з фізичних осіб",
	MPZ:            "мінімальне податкове зобов'язання",
}

// Label returns the Ukrainian description of the category.
func (c Category) Label() string {
	return labels[c]
}

// debtColumns are the five nullable debt columns, in the order they are summed.
var debtColumns = []string{"non_residential_debt", "residential_debt", "land_debt", "orenda_debt", "mpz"}

// TotalSQL is the SQL expression of total_debt. It must stay in step with Amounts.Total.
func TotalSQL(alias string) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	parts := make([]string, len(debtColumns))
	for i, column := range debtColumns {
		parts[i] = "COALESCE(" + prefix + column + ", 0)"
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// Amounts holds the five nullable debt components of a taxpayer.
type Amounts struct {
	NonResidential decimal.NullDecimal
	Residential    decimal.NullDecimal
	Land           decimal.NullDecimal
	Orenda         decimal.NullDecimal
	MPZ            decimal.NullDecimal
}

// FromDebtor extracts the debt components of a taxpayer record.
func FromDebtor(d models.TaxDebtor) Amounts {
	return Amounts{
		NonResidential: d.NonResidentialDebt,
		Residential:    d.ResidentialDebt,
		Land:           d.LandDebt,
		Orenda:         d.OrendaDebt,
		MPZ:            d.MPZ,
	}
}

// Get returns the amount for a category, with NULL read as zero.
func (a Amounts) Get(c Category) decimal.Decimal {
	var v decimal.NullDecimal
	switch c {
	case NonResidential:
		v = a.NonResidential
	case Residential:
		v = a.Residential
	case Land:
		v = a.Land
	case Orenda:
		v = a.Orenda
	case MPZ:
		v = a.MPZ
	}
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}

// Total is the sum of the five components with NULL read as zero.
func (a Amounts) Total() decimal.Decimal {
	return a.Get(NonResidential).
		Add(a.Get(Residential)).
		Add(a.Get(Land)).
		Add(a.Get(Orenda)).
		Add(a.Get(MPZ))
}

// Total returns the derived total debt of a taxpayer record.
func Total(d models.TaxDebtor) decimal.Decimal {
	return FromDebtor(d).Total()
}

// Money is a decimal amount rendered with two decimals.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// String renders the amount with two decimals.
func (m Money) String() string {
	return m.StringFixed(2)
}

// MarshalJSON renders the amount as a two-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a quoted or bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
