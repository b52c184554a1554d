package providers

import (
	"context"

	"github.com/dharmasatrya/flighttracker/internal/models"
)

type TokenSource interface {
	FetchToken(ctx context.Context) (string, error)
}

type OfferSearcher interface {
	GetOffers(ctx context.Context, token string, req models.SearchRequest) (*models.OfferResponse, error)
}

// UpstreamError wraps every failure coming out of a provider so callers can
// tell it apart from "no results" with errors.Is(err, models.ErrUpstreamFailure).
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	return e.Provider + " " + e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == models.ErrUpstreamFailure
}

func NewUpstreamError(provider, op string, err error) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}
