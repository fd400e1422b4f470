package debt

import (
	"fmt"
	"strings"

	"github.com/stwalsh4118/debtdesk/api/internal/models"
)

// RequisiteFor returns the payment details configured for category c.
func RequisiteFor(r models.Requisite, c Category) models.PaymentDetails {
	switch c {
	case NonResidential:
		return r.NonResidential
	case Residential:
		return r.Residential
	case Land:
		return r.Land
	case Orenda:
		return r.Orenda
	case MPZ:
		return r.MPZ
	}
	return models.PaymentDetails{}
}

// RequisiteText renders payment details as the single line printed under a
// section heading.
func RequisiteText(p models.PaymentDetails) string {
	return fmt.Sprintf("Отримувач: %s, код ЄДРПОУ: %s, рахунок: %s, призначення платежу: %s",
		p.Recipient, p.EDRPOU, p.Account, p.Purpose)
}

// MaskTaxID hides the middle of an identification number, keeping the first
// two and last three characters. Short values are masked completely.
func MaskTaxID(id string) string {
	r := []rune(strings.TrimSpace(id))
	if len(r) == 0 {
		return ""
	}
	if len(r) <= 5 {
		return strings.Repeat("*", len(r))
	}
	return string(r[:2]) + strings.Repeat("*", len(r)-5) + string(r[len(r)-3:])
}
