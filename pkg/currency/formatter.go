package currency

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const DefaultCode = "USD"

var ErrMalformedPrice = errors.New("malformed price")

// Format renders a price the way catalog records store it: "<amount> <code>".
// The amount text is kept verbatim; an empty code falls back to DefaultCode.
func Format(amount, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		code = DefaultCode
	}
	return strings.TrimSpace(amount) + " " + code
}

// Parse splits a formatted price back into its numeric amount and currency.
func Parse(price string) (decimal.Decimal, string, error) {
	fields := strings.Fields(price)
	if len(fields) != 2 {
		return decimal.Zero, "", errors.Wrapf(ErrMalformedPrice, "%q", price)
	}

	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return decimal.Zero, "", errors.Wrapf(ErrMalformedPrice, "%q: %v", price, err)
	}

	return amount, fields[1], nil
}
