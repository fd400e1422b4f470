// Package validation holds the custom validator rules shared by request
// binding and spreadsheet import.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// IBANTag is the struct tag of the Ukrainian IBAN rule.
const IBANTag = "iban_ua"

var ibanRe = regexp.MustCompile(`^UA\d{27}$`)

// IsIBAN reports whether s is a Ukrainian IBAN: UA followed by exactly 27 digits.
func IsIBAN(s string) bool {
	return ibanRe.MatchString(s)
}

// NormalizeIBAN removes spaces and upper-cases s.
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Register installs the custom rules on v.
func Register(v *validator.Validate) error {
	return v.RegisterValidation(IBANTag, func(fl validator.FieldLevel) bool {
		return IsIBAN(fl.Field().String())
	})
}
