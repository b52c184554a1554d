package models

import (
	"bytes"
	"encoding/json"
)

// OfferResponse is the raw flight-offers payload returned by the upstream API.
type OfferResponse struct {
	Data []Offer `json:"data"`

	// Malformed lists entries of data that did not decode as an offer.
	// They are not carried through Marshal.
	Malformed []MalformedOffer `json:"-"`
}

// MalformedOffer is one entry of data with the wrong JSON shape.
type MalformedOffer struct {
	Index int
	Err   error
}

// UnmarshalJSON decodes each entry of data on its own so that one mistyped
// offer does not discard the rest. It fails only when data is not a list.
func (r *OfferResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	r.Data = make([]Offer, 0, len(raw.Data))
	r.Malformed = nil
	for i, item := range raw.Data {
		var offer Offer
		if err := json.Unmarshal(item, &offer); err != nil {
			r.Malformed = append(r.Malformed, MalformedOffer{Index: i, Err: err})
			continue
		}
		r.Data = append(r.Data, offer)
	}
	return nil
}

type Offer struct {
	Type                   string            `json:"type,omitempty"`
	ID                     string            `json:"id"`
	Source                 string            `json:"source"`
	Itineraries            []Itinerary       `json:"itineraries"`
	Price                  *OfferPrice       `json:"price"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes"`
	TravelerPricings       []json.RawMessage `json:"travelerPricings"`
}

type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number,omitempty"`
	Departure   SegmentPoint `json:"departure"`
	Arrival     SegmentPoint `json:"arrival"`
}

type SegmentPoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at,omitempty"`
}

type OfferPrice struct {
	Currency   string `json:"currency"`
	Total      Amount `json:"total"`
	GrandTotal Amount `json:"grandTotal"`
}

// IsEmpty reports whether the price block carries no usable field at all.
func (p *OfferPrice) IsEmpty() bool {
	return p == nil || (p.Currency == "" && p.Total == "" && p.GrandTotal == "")
}

// Amount keeps a price exactly as the upstream rendered it. The API sends
// strings, but bare JSON numbers are accepted too.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}
