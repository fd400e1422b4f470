package debt

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
)

// SyntheticCadastralPrefix marks cadastral numbers generated when no real
// identifier was known at data-entry time.
const SyntheticCadastralPrefix = "AUTO-"

// minCadastralLength is the shortest cadastral number treated as real.
const minCadastralLength = 6

// IsSyntheticCadastral reports whether n is a placeholder rather than a real
// cadastral number: empty, generated, or too short.
func IsSyntheticCadastral(n string) bool {
	n = strings.TrimSpace(n)
	if n == "" || strings.HasPrefix(strings.ToUpper(n), SyntheticCadastralPrefix) {
		return true
	}
	return utf8.RuneCountInString(n) < minCadastralLength
}

// LineItem is one {address, cadastral number, amount} row of a debt notice.
type LineItem struct {
	Category        Category `json:"category"`
	Address         string   `json:"address"`
	CadastralNumber string   `json:"cadastral_number"`
	Amount          Money    `json:"amount"`
}

// Section groups the line items of one category.
type Section struct {
	Category Category   `json:"category"`
	Label    string     `json:"label"`
	Items    []LineItem `json:"items"`
	Subtotal Money      `json:"subtotal"`
}

// Breakdown is the decomposition of a taxpayer's debt. LandTotal, GrandTotal
// and TotalDebt are independent figures: the land items may come from parcel
// records whose sum differs from the stored land debt.
type Breakdown struct {
	Items      []LineItem `json:"items"`
	Sections   []Section  `json:"sections"`
	LandTotal  Money      `json:"land_total"`
	GrandTotal Money      `json:"grand_total"`
	TotalDebt  Money      `json:"total_debt"`
}

// NeedsParcels reports whether the land itemization should be fetched.
func NeedsParcels(d models.TaxDebtor) bool {
	return FromDebtor(d).Get(Land).IsPositive()
}

// BuildLineItems decomposes d into line items. parcels are the taxpayer's
// cadastral records; when none carries a positive land tax the land debt is
// apportioned across the debtor's own cadastral numbers instead.
func BuildLineItems(d models.TaxDebtor, parcels []models.CadasterRecord) Breakdown {
	amounts := FromDebtor(d)
	var items []LineItem

	if land := amounts.Get(Land); land.IsPositive() {
		items = append(items, landItems(d, land, parcels)...)
	}

	for _, c := range Categories {
		if c == Land {
			continue
		}
		if amount := amounts.Get(c); amount.IsPositive() {
			items = append(items, LineItem{
				Category: c,
				Address:  d.TaxAddress,
				Amount:   NewMoney(amount),
			})
		}
	}

	if items == nil {
		items = []LineItem{}
	}

	landTotal, grandTotal := decimal.Zero, decimal.Zero
	for _, item := range items {
		grandTotal = grandTotal.Add(item.Amount.Decimal)
		if item.Category == Land {
			landTotal = landTotal.Add(item.Amount.Decimal)
		}
	}

	return Breakdown{
		Items:      items,
		Sections:   group(items),
		LandTotal:  NewMoney(landTotal),
		GrandTotal: NewMoney(grandTotal),
		TotalDebt:  NewMoney(amounts.Total()),
	}
}

func landItems(d models.TaxDebtor, land decimal.Decimal, parcels []models.CadasterRecord) []LineItem {
	var items []LineItem
	for _, p := range parcels {
		if !p.LandTax.IsPositive() {
			continue
		}
		address := p.TaxAddress
		if strings.TrimSpace(address) == "" {
			address = d.TaxAddress
		}
		items = append(items, LineItem{
			Category:        Land,
			Address:         address,
			CadastralNumber: realCadastral(p.CadastralNumber),
			Amount:          NewMoney(p.LandTax),
		})
	}
	if len(items) > 0 {
		return items
	}

	valid := ValidCadastralNumbers(d.CadastralNumber)
	if len(valid) == 0 {
		return []LineItem{{Category: Land, Address: d.TaxAddress, Amount: NewMoney(land)}}
	}

	shares := Apportion(land, len(valid))
	for i, number := range valid {
		items = append(items, LineItem{
			Category:        Land,
			Address:         d.TaxAddress,
			CadastralNumber: number,
			Amount:          NewMoney(shares[i]),
		})
	}
	return items
}

func realCadastral(n string) string {
	if IsSyntheticCadastral(n) {
		return ""
	}
	return strings.TrimSpace(n)
}

// ValidCadastralNumbers splits a comma-joined list and drops synthetic entries.
func ValidCadastralNumbers(joined string) []string {
	var valid []string
	for _, part := range strings.Split(joined, ",") {
		if !IsSyntheticCadastral(part) {
			valid = append(valid, strings.TrimSpace(part))
		}
	}
	return valid
}

// Apportion splits total into n shares of whole kopiykas. The last share
// absorbs the rounding remainder so the shares always sum to total.
func Apportion(total decimal.Decimal, n int) []decimal.Decimal {
	if n < 1 {
		return nil
	}
	share := total.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	shares := make([]decimal.Decimal, n)
	rest := total
	for i := 0; i < n-1; i++ {
		shares[i] = share
		rest = rest.Sub(share)
	}
	shares[n-1] = rest
	return shares
}

func group(items []LineItem) []Section {
	sections := []Section{}
	for _, c := range Categories {
		var section *Section
		for _, item := range items {
			if item.Category != c {
				continue
			}
			if section == nil {
				sections = append(sections, Section{Category: c, Label: c.Label()})
				section = &sections[len(sections)-1]
			}
			section.Items = append(section.Items, item)
			section.Subtotal = NewMoney(section.Subtotal.Add(item.Amount.Decimal))
		}
	}
	return sections
}
