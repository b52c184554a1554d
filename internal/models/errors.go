package models

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument marks caller input that can never succeed as given.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstreamFailure marks a failed call to the flight-offers provider.
	ErrUpstreamFailure = errors.New("upstream failure")
)

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

const (
	ErrMissingOrigin      ValidationError = "origin is required"
	ErrMissingDestination ValidationError = "destination is required"
)
