// Package currencyutils parses statement amounts, validates currency codes and enforces
// the numeric limits of the budget_entry table.
package currencyutils

import (
	"errors"
	"fmt"
	"strings"

	"mynab/budget-import/internal/parsererror"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned when an amount cell holds no digits.
var ErrEmptyAmount = errors.New("empty amount")

// MaxStorableAmount is the largest value a DECIMAL(38,12) column can hold.
var MaxStorableAmount = decimal.RequireFromString("99999999999999999999999999.999999999999")

var amountNoise = strings.NewReplacer("$", "", " ", "", " ", "", "\t", "")

// ParsePlainAmount parses amounts that already use "." as the decimal separator,
// such as "250.00", "-45.5" or "+1200".
func ParsePlainAmount(raw string) (decimal.Decimal, error) {
	s := amountNoise.Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}
	return d, nil
}

// ParseLocaleAmount parses amounts written with "." as thousands separator and ","
// as decimal separator ("1.234,56", "-$ 12.000"). Values without a comma that carry a
// single dot not followed by exactly three digits ("1500.5") keep the dot as decimal
// point. Numbers stored as such in a spreadsheet must go through ParsePlainAmount.
func ParseLocaleAmount(raw string) (decimal.Decimal, error) {
	s := amountNoise.Replace(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") == 1 && !isThousandsGroup(s):
		// decimal point, leave as is
	default:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}
	return d, nil
}

func isThousandsGroup(s string) bool {
	tail := s[strings.LastIndex(s, ".")+1:]
	if len(tail) != 3 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateCurrency normalizes code to upper case and checks it against ISO-4217.
func ValidateCurrency(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 || money.GetCurrency(normalized) == nil {
		return "", &parsererror.InvalidCurrencyError{Currency: code}
	}
	return normalized, nil
}

// CapAmount limits amount to MaxStorableAmount. The second result reports whether the
// value was changed.
func CapAmount(amount decimal.Decimal) (decimal.Decimal, bool) {
	if amount.GreaterThan(MaxStorableAmount) {
		return MaxStorableAmount, true
	}
	return amount, false
}
