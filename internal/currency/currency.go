// Package currency formats and parses monetary amounts for display.
//
// It is a display-layer helper: invalid input never produces an error, it
// degrades to a zero value or the USD defaults instead.
package currency

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Info describes a supported currency.
type Info struct {
	Symbol string
	Name   string
	Locale string // BCP-47 tag used for locale-aware formatting
}

// Currencies is the fixed set of supported currency codes.
var Currencies = map[string]Info{
	"USD": {Symbol: "$", Name: "US Dollar", Locale: "en-US"},
	"EUR": {Symbol: "€", Name: "Euro", Locale: "de-DE"},
	"GBP": {Symbol: "£", Name: "British Pound", Locale: "en-GB"},
	"INR": {Symbol: "₹", Name: "Indian Rupee", Locale: "en-IN"},
	"JPY": {Symbol: "¥", Name: "Japanese Yen", Locale: "ja-JP"},
	"CAD": {Symbol: "C$", Name: "Canadian Dollar", Locale: "en-CA"},
	"AUD": {Symbol: "A$", Name: "Australian Dollar", Locale: "en-AU"},
}

// Codes lists the supported currency codes in selector display order.
func Codes() []string {
	return []string{"USD", "EUR", "GBP", "INR", "JPY", "CAD", "AUD"}
}

// lookup resolves a currency code, falling back to USD on miss.
func lookup(code string) Info {
	if info, ok := Currencies[code]; ok {
		return info
	}
	return Currencies["USD"]
}

// Symbol returns the symbol for a currency code, "$" on miss.
func Symbol(code string) string {
	return lookup(code).Symbol
}

// Name returns the display name for a currency code, "US Dollar" on miss.
func Name(code string) string {
	return lookup(code).Name
}

// Format renders an amount with its currency symbol, two decimal places
// fixed. NaN and infinite amounts format as zero. When useLocale is true the
// number is rendered with the locale's digit grouping and decimal separator;
// a locale tag that fails to parse falls back silently to the manual path.
func Format(amount float64, code string, useLocale bool) string {
	info := lookup(code)

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return info.Symbol + "0.00"
	}

	if useLocale {
		if tag, err := language.Parse(info.Locale); err == nil {
			p := message.NewPrinter(tag)
			n := p.Sprint(number.Decimal(math.Abs(amount),
				number.MinFractionDigits(2), number.MaxFractionDigits(2)))
			if amount < 0 {
				return "-" + info.Symbol + n
			}
			return info.Symbol + n
		}
	}

	if amount < 0 {
		return "-" + info.Symbol + formatGrouped(amount)
	}
	return info.Symbol + formatGrouped(amount)
}

// formatGrouped renders abs(amount) to two decimals with thousands
// separators (groups of three from the right).
func formatGrouped(amount float64) string {
	s := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}

	return b.String() + "." + fracPart
}

// ParseAmount extracts a numeric amount from a currency string such as
// "$1,234.50". Every character except digits, '.' and '-' is stripped before
// parsing. Empty or unparseable input yields 0, never an error.
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
