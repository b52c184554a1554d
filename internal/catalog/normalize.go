package catalog

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flighttracker/internal/models"
	"github.com/dharmasatrya/flighttracker/pkg/currency"
)

// Reasons an offer is dropped during normalization.
var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrNoSegments      = errors.New("no segments in itinerary")
	ErrIncompleteData  = errors.New("missing airline or price total")
	ErrInvalidPrice    = errors.New("invalid price format")
	ErrMissingAirports = errors.New("missing departure or arrival airport")
	ErrSameAirport     = errors.New("origin and destination are the same")
)

const (
	maxPriceLen      = 32
	maxPriceExponent = 18
)

type dedupKey struct {
	airline string
	price   string
}

// normalized is a record plus the key it deduplicates on.
type normalized struct {
	record models.FlightRecord
	key    dedupKey
}

// Normalize turns one raw offer into a flight record stamped with the
// caller's dates. The returned error says why the offer is unusable.
func Normalize(offer models.Offer, departureDate, returnDate string) (models.FlightRecord, error) {
	n, err := normalize(offer, departureDate, returnDate)
	if err != nil {
		return models.FlightRecord{}, err
	}
	return n.record, nil
}

func normalize(offer models.Offer, departureDate, returnDate string) (normalized, error) {
	if offer.ID == "" ||
		offer.Source == "" ||
		len(offer.Itineraries) == 0 ||
		offer.Price.IsEmpty() ||
		len(offer.ValidatingAirlineCodes) == 0 ||
		len(offer.TravelerPricings) == 0 {
		return normalized{}, ErrMissingFields
	}

	segments := offer.Itineraries[0].Segments
	if len(segments) == 0 {
		return normalized{}, ErrNoSegments
	}
	first, last := segments[0], segments[len(segments)-1]

	airline := strings.ToUpper(strings.TrimSpace(first.CarrierCode))
	total := strings.TrimSpace(string(offer.Price.GrandTotal))
	// Offers without grandTotal are kept when total is present, a deliberate
	// relaxation over reading grandTotal alone.
	if total == "" {
		total = strings.TrimSpace(string(offer.Price.Total))
	}
	if airline == "" || total == "" {
		return normalized{}, ErrIncompleteData
	}

	if len(total) > maxPriceLen {
		return normalized{}, errors.Wrapf(ErrInvalidPrice, "%d characters", len(total))
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return normalized{}, errors.Wrapf(ErrInvalidPrice, "%q", total)
	}
	// A huge exponent would expand to millions of digits once rendered.
	if exp := amount.Exponent(); exp < -maxPriceExponent || exp > maxPriceExponent {
		return normalized{}, errors.Wrapf(ErrInvalidPrice, "%q is out of range", total)
	}

	origin := strings.ToUpper(strings.TrimSpace(first.Departure.IATACode))
	destination := strings.ToUpper(strings.TrimSpace(last.Arrival.IATACode))
	if origin == "" || destination == "" {
		return normalized{}, ErrMissingAirports
	}
	if origin == destination {
		return normalized{}, ErrSameAirport
	}

	return normalized{
		record: models.FlightRecord{
			Airline:       airline,
			Origin:        origin,
			Destination:   destination,
			DepartureDate: departureDate,
			ReturnDate:    returnDate,
			Price:         currency.Format(total, offer.Price.Currency),
		},
		// String drops trailing zeros, so "200.00" and "200" collide.
		key: dedupKey{airline: airline, price: amount.String()},
	}, nil
}
