package rating

import (
	"strings"

	"github.com/shopspring/decimal"

	"wc-rating/internal/errors"
)

// ParsePayroll parses user-entered payroll such as "$100,000.00".
// Non-numeric or negative text fails with an InvalidPayroll error.
func ParsePayroll(s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Zero, errors.InvalidPayroll("invalid numeric input, enter numbers only for payroll").
			WithContext("input", s)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.InvalidPayroll("payroll must not be negative").WithContext("input", s)
	}
	return d, nil
}

// ParseFactor parses a decimal factor such as an experience mod or schedule value
func ParseFactor(name, s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Zero, errors.Input(name + ": invalid numeric input " + quote(s))
	}
	return d, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.ReplaceAll(clean, ",", "")
	return decimal.NewFromString(clean)
}

func quote(s string) string {
	return "\"" + s + "\""
}
