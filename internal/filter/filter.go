package filter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flighttracker/internal/models"
	"github.com/dharmasatrya/flighttracker/pkg/currency"
)

// PriceCurrency is the only currency price-range filtering understands.
const PriceCurrency = "USD"

type Predicate func(models.FlightRecord) bool

// Apply keeps the records matching every predicate, in their original order.
// The result is never nil.
func Apply(records []models.FlightRecord, preds ...Predicate) []models.FlightRecord {
	result := make([]models.FlightRecord, 0, len(records))

	for _, r := range records {
		if matchesAll(r, preds) {
			result = append(result, r)
		}
	}

	return result
}

func matchesAll(r models.FlightRecord, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

func Airline(code string) Predicate {
	code = strings.TrimSpace(code)
	return func(r models.FlightRecord) bool {
		return strings.EqualFold(r.Airline, code)
	}
}

func Origin(code string) Predicate {
	code = strings.TrimSpace(code)
	return func(r models.FlightRecord) bool {
		return strings.EqualFold(r.Origin, code)
	}
}

// PriceRange matches USD prices in [lo, hi]. Records in any other currency,
// or with a price that does not parse, never match.
func PriceRange(lo, hi decimal.Decimal) Predicate {
	return func(r models.FlightRecord) bool {
		amount, code, err := currency.Parse(r.Price)
		if err != nil || code != PriceCurrency {
			return false
		}
		return amount.GreaterThanOrEqual(lo) && amount.LessThanOrEqual(hi)
	}
}
