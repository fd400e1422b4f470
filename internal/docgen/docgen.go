// Package docgen renders the debtor notice and the tax notification from
// Word templates.
package docgen

import (
	"errors"
	"fmt"
	"time"

	"github.com/stwalsh4118/debtdesk/api/internal/debt"
	"github.com/stwalsh4118/debtdesk/api/internal/docx"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
)

// Placeholders used by the debtor notice template.
const (
	BlockItems = "items"
	BlockQR    = "qr"
)

// qrWidthCM is the printed width of the payment QR code.
const qrWidthCM = 3.5

// Table column widths in twentieths of a point.
var itemColumns = []int{7200, 2400}

// ErrNoDebt is returned when a debtor has nothing to put in a notice.
var ErrNoDebt = errors.New("debtor has no outstanding debt")

// ErrEmptyCharge is returned when the tax notification has no charge to render.
var ErrEmptyCharge = errors.New("debt charge is empty")

// Paths locates the templates and the QR image.
type Paths struct {
	DebtorTemplate       string
	NotificationTemplate string
	QRImage              string
}

// Generator renders documents. Templates are read on every call so they can
// be replaced without a restart.
type Generator struct {
	paths Paths
	now   func() time.Time
}

// New returns a Generator for the given paths.
func New(paths Paths) *Generator {
	return &Generator{paths: paths, now: time.Now}
}

// DebtorNotice is the input of the debt notice.
type DebtorNotice struct {
	Debtor    models.TaxDebtor
	Breakdown debt.Breakdown
	Requisite models.Requisite
}

// DebtorNotice renders the debt notice: one numbered section per debt
// category with its payment requisites and an {address, amount} table, then
// the grand total. The template must contain the {items} block placeholder.
func (g *Generator) DebtorNotice(n DebtorNotice) ([]byte, error) {
	if len(n.Breakdown.Items) == 0 {
		return nil, ErrNoDebt
	}

	doc, err := docx.OpenFile(g.paths.DebtorTemplate)
	if err != nil {
		return nil, err
	}

	doc.Replace(map[string]string{
		"name":             n.Debtor.Name,
		"identification":   debt.MaskTaxID(n.Debtor.Identification),
		"tax_address":      n.Debtor.TaxAddress,
		"snapshot_date":    n.Debtor.Date.Local(),
		"date":             g.now().Format("02.01.2006"),
		"land_total":       n.Breakdown.LandTotal.String(),
		"grand_total":      n.Breakdown.GrandTotal.String(),
		"total_debt":       n.Breakdown.TotalDebt.String(),
		"total_debt_words": AmountInWords(n.Breakdown.TotalDebt.Decimal),
	})

	if err := doc.ReplaceBlock(BlockItems, sectionBlocks(n)...); err != nil {
		return nil, err
	}

	if doc.Has(BlockQR) {
		img, err := doc.AddImageFile(g.paths.QRImage, qrWidthCM)
		if err != nil {
			return nil, err
		}
		if err := doc.ReplaceBlock(BlockQR, img); err != nil {
			return nil, err
		}
	}

	return doc.Bytes()
}

func sectionBlocks(n DebtorNotice) []docx.Block {
	var blocks []docx.Block
	for i, section := range n.Breakdown.Sections {
		blocks = append(blocks,
			docx.Paragraph{
				Runs:   []docx.Run{{Text: fmt.Sprintf("%d. %s:", i+1, section.Label)}},
				Align:  docx.AlignJustify,
				Indent: 567,
			},
			docx.Paragraph{
				Runs:  []docx.Run{{Text: debt.RequisiteText(debt.RequisiteFor(n.Requisite, section.Category)), Bold: true}},
				Align: docx.AlignJustify,
			},
		)

		table := docx.Table{Widths: itemColumns}
		for _, item := range section.Items {
			table.Rows = append(table.Rows, []docx.Cell{
				{Text: itemAddress(item)},
				{Text: item.Amount.String(), Align: docx.AlignRight},
			})
		}
		table.Rows = append(table.Rows, []docx.Cell{
			{Text: "Сума", Bold: true},
			{Text: section.Subtotal.String(), Bold: true, Align: docx.AlignRight},
		})
		blocks = append(blocks, table)
	}

	total := n.Breakdown.GrandTotal
	blocks = append(blocks, docx.Paragraph{
		Runs: []docx.Run{
			{Text: "Загальна сума заборгованості: "},
			{Text: total.String() + " грн", Bold: true},
			{Text: " (" + AmountInWords(total.Decimal) + ")."},
		},
		Align: docx.AlignJustify,
	})
	return blocks
}

func itemAddress(item debt.LineItem) string {
	if item.CadastralNumber == "" {
		return item.Address
	}
	return fmt.Sprintf("%s (кадастровий номер %s)", item.Address, item.CadastralNumber)
}

// TaxNotification is the input of the tax notification. Amounts is nil when
// no debtor record matches the charge's payer.
type TaxNotification struct {
	Charge  models.DebtCharge
	Amounts *debt.Amounts
}

// TaxNotificationFields returns the placeholder values of the tax
// notification. Category amounts default to "0.00".
func TaxNotificationFields(n TaxNotification, now time.Time) map[string]string {
	values := map[string]string{
		"tax_number":       n.Charge.TaxNumber,
		"payer_name":       n.Charge.PayerName,
		"payment_info":     n.Charge.PaymentInfo,
		"tax_classifier":   n.Charge.TaxClassifier,
		"account_number":   n.Charge.AccountNumber,
		"full_document_id": n.Charge.FullDocumentID,
		"document_date":    n.Charge.DocumentDate.Local(),
		"delivery_date":    n.Charge.DeliveryDate.Local(),
		"status":           n.Charge.Status,
		"amount":           n.Charge.Amount.StringFixed(2),
		"amount_words":     Capitalize(AmountInWords(n.Charge.Amount)),
		"date":             now.Format("02.01.2006"),
	}

	var amounts debt.Amounts
	if n.Amounts != nil {
		amounts = *n.Amounts
	}
	for _, c := range debt.Categories {
		v := amounts.Get(c)
		values[string(c)] = v.StringFixed(2)
		values[string(c)+"_words"] = Capitalize(AmountInWords(v))
	}
	total := amounts.Total()
	values["total_debt"] = total.StringFixed(2)
	values["total_debt_words"] = Capitalize(AmountInWords(total))
	return values
}

// TaxNotification renders the notification for one debt charge.
func (g *Generator) TaxNotification(n TaxNotification) ([]byte, error) {
	if n.Charge.ID == 0 {
		return nil, ErrEmptyCharge
	}
	doc, err := docx.OpenFile(g.paths.NotificationTemplate)
	if err != nil {
		return nil, err
	}
	doc.Replace(TaxNotificationFields(n, g.now()))
	return doc.Bytes()
}
