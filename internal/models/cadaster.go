package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CadasterRecord is one land parcel with its land tax.
// It is linked to TaxDebtor only by payer name; there is no foreign key.
type CadasterRecord struct {
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PlotArea        decimal.Decimal `json:"plot_area"`
	LandTax         decimal.Decimal `json:"land_tax"`
	PayerName       string          `json:"payer_name"`
	PayerAddress    string          `json:"payer_address"`
	IBAN            string          `json:"iban"`
	TaxAddress      string          `json:"tax_address"`
	CadastralNumber string          `json:"cadastral_number"`
	ID              int64           `json:"id"`
	UID             *int64          `json:"uid,omitempty"`
}
