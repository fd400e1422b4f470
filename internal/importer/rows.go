package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stwalsh4118/debtdesk/api/internal/debt"
	"github.com/stwalsh4118/debtdesk/api/internal/models"
	"github.com/stwalsh4118/debtdesk/api/internal/validation"
	"github.com/xuri/excelize/v2"
)

// RowError describes why one spreadsheet line was excluded.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("рядок %d: %s", e.Row, e.Message)
}

// DebtChargeColumns are the accepted headers of a debt charge sheet.
var DebtChargeColumns = Columns{
	"tax_number":       {"податковий номер", "ідентифікаційний номер", "ІПН", "РНОКПП", "код платника"},
	"payer_name":       {"платник", "найменування платника", "ПІБ", "назва платника"},
	"payment_info":     {"інформація про платіж", "призначення платежу"},
	"tax_classifier":   {"класифікатор", "код класифікації доходів", "ККД"},
	"account_number":   {"рахунок", "номер рахунку"},
	"full_document_id": {"номер документа", "номер ППР", "номер податкового повідомлення"},
	"document_date":    {"дата документа", "дата ППР"},
	"delivery_date":    {"дата вручення"},
	"amount":           {"сума", "сума до сплати"},
	"status":           {"статус"},
}

// DebtChargeRequired are the columns a debt charge sheet must contain.
var DebtChargeRequired = []string{"tax_number", "payer_name", "amount"}

// CadasterColumns are the accepted headers of a cadaster sheet.
var CadasterColumns = Columns{
	"payer_name":       {"платник", "власник", "ПІБ платника", "назва платника"},
	"payer_address":    {"адреса платника"},
	"iban":             {"IBAN", "рахунок IBAN"},
	"plot_area":        {"площа", "площа ділянки", "площа, га"},
	"land_tax":         {"земельний податок", "сума податку", "податок"},
	"tax_address":      {"адреса ділянки", "податкова адреса", "місцезнаходження"},
	"cadastral_number": {"кадастровий номер"},
}

// CadasterRequired are the columns a cadaster sheet must contain.
var CadasterRequired = []string{"payer_name", "land_tax"}

var taxNumberRe = regexp.MustCompile(`^\d{8,10}$`)

var statusAliases = map[string]string{
	"not delivered": models.ChargeStatusNotDelivered,
	"не вручено":    models.ChargeStatusNotDelivered,
	"delivered":     models.ChargeStatusDelivered,
	"вручено":       models.ChargeStatusDelivered,
	"paid":          models.ChargeStatusPaid,
	"сплачено":      models.ChargeStatusPaid,
	"cancelled":     models.ChargeStatusCancelled,
	"canceled":      models.ChargeStatusCancelled,
	"скасовано":     models.ChargeStatusCancelled,
}

// NormalizeStatus maps a status in either language to the stored vocabulary.
// An empty status means the notice has not been delivered yet.
func NormalizeStatus(s string) (string, bool) {
	key := NormalizeHeader(s)
	if key == "" {
		return models.ChargeStatusNotDelivered, true
	}
	status, ok := statusAliases[key]
	return status, ok
}

// ParseAmount parses a money value, accepting a comma decimal separator and
// any whitespace used as a thousands separator.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return decimal.Zero, errors.New("порожнє значення")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("некоректне число %q", s)
	}
	return d, nil
}

// maxExcelSerial bounds the numbers read as Excel date serials (year 2173).
const maxExcelSerial = 100000

// ParseCellDate parses a date cell. Excel serial numbers are accepted too.
func ParseCellDate(s string) (models.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Date{}, nil
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return models.Date{}, err
		}
		return models.NewDate(t), nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fmt.Errorf("некоректна дата %q", s)
	}
	return d, nil
}

// DebtChargeRows validates and converts debt charge rows. A missing document
// id is replaced by a generated one.
func DebtChargeRows(rows []Row) ([]models.DebtCharge, []RowError) {
	var charges []models.DebtCharge
	var errs []RowError

	for _, row := range rows {
		charge, err := debtCharge(row)
		if err != nil {
			errs = append(errs, RowError{Row: row.Line, Message: err.Error()})
			continue
		}
		charges = append(charges, charge)
	}
	return charges, errs
}

func debtCharge(row Row) (models.DebtCharge, error) {
	c := models.DebtCharge{
		TaxNumber:      row.Get("tax_number"),
		PayerName:      row.Get("payer_name"),
		PaymentInfo:    row.Get("payment_info"),
		TaxClassifier:  row.Get("tax_classifier"),
		AccountNumber:  row.Get("account_number"),
		FullDocumentID: row.Get("full_document_id"),
	}

	if c.PayerName == "" {
		return c, errors.New("не вказано платника")
	}
	if c.TaxNumber == "" {
		return c, errors.New("не вказано податковий номер")
	}
	if !taxNumberRe.MatchString(c.TaxNumber) {
		return c, fmt.Errorf("податковий номер %q має містити від 8 до 10 цифр", c.TaxNumber)
	}

	amount, err := ParseAmount(row.Get("amount"))
	if err != nil {
		return c, fmt.Errorf("сума: %v", err)
	}
	if !amount.IsPositive() {
		return c, errors.New("сума має бути більшою за нуль")
	}
	c.Amount = amount

	status, ok := NormalizeStatus(row.Get("status"))
	if !ok {
		return c, fmt.Errorf("невідомий статус %q", row.Get("status"))
	}
	c.Status = status

	if c.DocumentDate, err = ParseCellDate(row.Get("document_date")); err != nil {
		return c, fmt.Errorf("дата документа: %v", err)
	}
	if c.DeliveryDate, err = ParseCellDate(row.Get("delivery_date")); err != nil {
		return c, fmt.Errorf("дата вручення: %v", err)
	}

	if c.FullDocumentID == "" {
		c.FullDocumentID = uuid.NewString()
	}
	return c, nil
}

// CadasterRows validates and converts cadaster rows. Rows without a cadastral
// number get a synthetic one; a repeated cadastral number keeps its first row.
func CadasterRows(rows []Row) ([]models.CadasterRecord, []RowError) {
	var records []models.CadasterRecord
	var errs []RowError
	seen := make(map[string]int)

	for _, row := range rows {
		record, err := cadasterRecord(row)
		if err != nil {
			errs = append(errs, RowError{Row: row.Line, Message: err.Error()})
			continue
		}
		if first, ok := seen[record.CadastralNumber]; ok {
			errs = append(errs, RowError{
				Row:     row.Line,
				Message: fmt.Sprintf("кадастровий номер %s уже є в рядку %d", record.CadastralNumber, first),
			})
			continue
		}
		seen[record.CadastralNumber] = row.Line
		records = append(records, record)
	}
	return records, errs
}

func cadasterRecord(row Row) (models.CadasterRecord, error) {
	r := models.CadasterRecord{
		PayerName:       row.Get("payer_name"),
		PayerAddress:    row.Get("payer_address"),
		TaxAddress:      row.Get("tax_address"),
		CadastralNumber: row.Get("cadastral_number"),
		IBAN:            validation.NormalizeIBAN(row.Get("iban")),
	}

	if r.PayerName == "" {
		return r, errors.New("не вказано платника")
	}
	if r.IBAN != "" && !validation.IsIBAN(r.IBAN) {
		return r, fmt.Errorf("IBAN %q має складатися з UA та 27 цифр", r.IBAN)
	}

	tax, err := ParseAmount(row.Get("land_tax"))
	if err != nil {
		return r, fmt.Errorf("земельний податок: %v", err)
	}
	if tax.IsNegative() {
		return r, errors.New("земельний податок не може бути від'ємним")
	}
	r.LandTax = tax

	if area := row.Get("plot_area"); area != "" {
		if r.PlotArea, err = ParseAmount(area); err != nil {
			return r, fmt.Errorf("площа: %v", err)
		}
		if r.PlotArea.IsNegative() {
			return r, errors.New("площа не може бути від'ємною")
		}
	}

	if r.CadastralNumber == "" {
		r.CadastralNumber = SyntheticCadastral()
	}
	return r, nil
}

// SyntheticCadastral returns a placeholder cadastral number.
func SyntheticCadastral() string {
	return debt.SyntheticCadastralPrefix + uuid.NewString()
}
