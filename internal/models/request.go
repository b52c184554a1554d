package models

import "strings"

type SearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Adults        int    `json:"adults"`
}

func (r *SearchRequest) Validate() error {
	r.Origin = strings.TrimSpace(r.Origin)
	r.Destination = strings.TrimSpace(r.Destination)

	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if r.Destination == "" {
		return ErrMissingDestination
	}
	if r.Adults <= 0 {
		r.Adults = 1
	}
	return nil
}

type PriceRange struct {
	Min string `query:"min"`
	Max string `query:"max"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PasswordUpdate struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
