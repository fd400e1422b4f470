package models

import (
	"github.com/shopspring/decimal"
)

// Debt charge statuses. Stored verbatim in ower.tax_charges.status.
const (
	ChargeStatusNotDelivered = "Not delivered"
	ChargeStatusDelivered    = "Delivered"
	ChargeStatusPaid         = "Paid"
	ChargeStatusCancelled    = "Cancelled"
)

// ChargeStatuses lists the allowed status vocabulary.
var ChargeStatuses = []string{
	ChargeStatusNotDelivered,
	ChargeStatusDelivered,
	ChargeStatusPaid,
	ChargeStatusCancelled,
}

// DebtCharge is one issued tax notice. The table is replaced wholesale on
// every import.
type DebtCharge struct {
	DocumentDate   Date            `json:"document_date"`
	DeliveryDate   Date            `json:"delivery_date"`
	Amount         decimal.Decimal `json:"amount"`
	TaxNumber      string          `json:"tax_number"`
	PayerName      string          `json:"payer_name"`
	PaymentInfo    string          `json:"payment_info"`
	TaxClassifier  string          `json:"tax_classifier"`
	AccountNumber  string          `json:"account_number"`
	FullDocumentID string          `json:"full_document_id"`
	Status         string          `json:"status"`
	ID             int64           `json:"id"`
}
