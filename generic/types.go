/*
Package generic provides the domain-agnostic primitives of the statement engine.

PURPOSE:
  This package holds the building blocks every statement computation relies
  on, independent of the construction-ledger taxonomy: calendar days, the
  bi-weekly reporting calendar, currency parsing and the loader contract.

KEY CONCEPTS IN THIS FILE (types.go):
  - Currency amounts are decimal.Decimal, never float64
  - ParseCurrency: regional text ("R$ 1.234,56") to decimal
  - FormatCurrency: decimal back to the regional text form
  - FormatCurrencyExact: the same without rounding, for round trips

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every monetary value
  2. Tolerance: malformed cells degrade to a safe default plus an error the
     caller can turn into a warning, they never abort a load
  3. Read-only: loaders hand over RawLedger values, nothing here mutates them

SEE ALSO:
  - time.go: TimePoint and day-first parsing
  - period.go: the 5th/20th reporting calendar
  - ledger.go: RawLedger, the loader output contract
  - errors.go: sentinel errors
*/
package generic

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY - Regional "R$ 1.234,56" amounts
// =============================================================================

const CurrencySymbol = "R$"

// machineDecimal matches plain spreadsheet numbers such as "1234.5" or "-12".
var machineDecimal = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][-+]?\d+)?$`)

// thousandsOnly matches "1.234" or "12.345.678" (dot as thousands separator).
var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseCurrency converts a regional currency string to a decimal.
//
// Steps: strip the currency symbol, drop "." thousands separators, replace
// the decimal comma with a period, parse. Text without a comma that already
// looks like a machine decimal ("1234.5") is parsed as-is, unless its dot
// groups read as thousands ("1.234").
//
// Returns decimal.Zero and an error for blank or unparsable input.
func ParseCurrency(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyValue
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.ReplaceAll(s, CurrencySymbol, "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}

	var normalized string
	switch {
	case strings.Contains(s, ","):
		normalized = strings.ReplaceAll(s, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	case thousandsOnly.MatchString(s):
		normalized = strings.ReplaceAll(s, ".", "")
	case machineDecimal.MatchString(s):
		normalized = s
	default:
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// FormatCurrency renders d as "R$ 1.234,56" (two decimals, half-up).
func FormatCurrency(d decimal.Decimal) string {
	return formatCurrency(d, 2)
}

// FormatCurrencyExact renders d in the regional form without rounding:
// at least two decimals, more when d carries them ("R$ 1.234,567").
// ParseCurrency reads the result back to the same value.
func FormatCurrencyExact(d decimal.Decimal) string {
	places := int32(2)
	if _, frac, ok := strings.Cut(d.String(), "."); ok && int32(len(frac)) > places {
		places = int32(len(frac))
	}
	return formatCurrency(d, places)
}

func formatCurrency(d decimal.Decimal, places int32) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(places)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + CurrencySymbol + " " + b.String() + "," + frac
}
