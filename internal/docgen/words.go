package docgen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type gender int

const (
	masculine gender = iota
	feminine
)

// forms holds the singular, paucal (2-4) and plural forms of a noun.
type forms [3]string

var (
	unitsMasculine = []string{"", "один", "два", "три", "чотири", "п'ять", "шість", "сім", "вісім", "дев'ять"}
	unitsFeminine  = []string{"", "одна", "дві", "три", "чотири", "п'ять", "шість", "сім", "вісім", "дев'ять"}
	teens          = []string{"десять", "одинадцять", "дванадцять", "тринадцять", "чотирнадцять", "п'ятнадцять", "шістнадцять", "сімнадцять", "вісімнадцять", "дев'ятнадцять"}
	tens           = []string{"", "", "двадцять", "тридцять", "сорок", "п'ятдесят", "шістдесят", "сімдесят", "вісімдесят", "дев'яносто"}
	hundreds       = []string{"", "сто", "двісті", "триста", "чотириста", "п'ятсот", "шістсот", "сімсот", "вісімсот", "дев'ятсот"}

	hryvnia = forms{"гривня", "гривні", "гривень"}
	kopiyka = forms{"копійка", "копійки", "копійок"}

	scales = []struct {
		forms  forms
		gender gender
	}{
		{forms{"", "", ""}, feminine},
		{forms{"тисяча", "тисячі", "тисяч"}, feminine},
		{forms{"мільйон", "мільйони", "мільйонів"}, masculine},
		{forms{"мільярд", "мільярди", "мільярдів"}, masculine},
		{forms{"трильйон", "трильйони", "трильйонів"}, masculine},
	}
)

// plural picks the noun form agreeing with n.
func plural(n int64, f forms) string {
	n %= 100
	if n >= 11 && n <= 14 {
		return f[2]
	}
	switch n % 10 {
	case 1:
		return f[0]
	case 2, 3, 4:
		return f[1]
	}
	return f[2]
}

// triad spells 0..999; the unit words agree with g.
func triad(n int64, g gender) []string {
	var words []string
	if h := n / 100; h > 0 {
		words = append(words, hundreds[h])
	}
	rest := n % 100
	switch {
	case rest >= 10 && rest < 20:
		words = append(words, teens[rest-10])
	default:
		if t := rest / 10; t > 0 {
			words = append(words, tens[t])
		}
		if u := rest % 10; u > 0 {
			if g == feminine {
				words = append(words, unitsFeminine[u])
			} else {
				words = append(words, unitsMasculine[u])
			}
		}
	}
	return words
}

// spellInt spells a non-negative integer. The lowest triad agrees with g,
// the grammatical gender of the counted noun.
func spellInt(n int64, g gender) string {
	if n == 0 {
		return "нуль"
	}
	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}
	var words []string
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 || i >= len(scales) {
			continue
		}
		scale := scales[i]
		gg := scale.gender
		if i == 0 {
			gg = g
		}
		words = append(words, triad(groups[i], gg)...)
		if i > 0 {
			words = append(words, plural(groups[i], scale.forms))
		}
	}
	return strings.Join(words, " ")
}

// AmountInWords spells an amount of hryvnias, e.g.
// "сто двадцять одна гривня 05 копійок". The amount is rounded to kopiykas.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	prefix := ""
	if amount.IsNegative() {
		prefix = "мінус "
		amount = amount.Neg()
	}
	whole := amount.IntPart()
	kop := amount.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()

	return fmt.Sprintf("%s%s %s %02d %s",
		prefix,
		spellInt(whole, feminine), plural(whole, hryvnia),
		kop, plural(kop, kopiyka))
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
