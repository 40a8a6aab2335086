package models

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the search and media services. Handlers
// translate these into user-facing responses; none of them is allowed to
// escape the service boundary as an unhandled fault.
var (
	// ErrInvalidInput indicates the query is empty or shorter than the
	// minimum length after trimming.
	ErrInvalidInput = errors.New("query must be at least 3 characters")

	// ErrLocationRequired indicates the location toggle is on but no
	// position fix is available yet. Distinct from ErrInvalidInput so the
	// caller can prompt for location permission instead of showing a
	// generic validation error.
	ErrLocationRequired = errors.New("location is enabled but no position is available")

	// ErrOffline indicates the connectivity monitor reported the network
	// as unreachable before the request was attempted.
	ErrOffline = errors.New("network is unreachable")

	// ErrRateLimited indicates the client-side submission quota is
	// exhausted. Callers must treat this as an immediate rejection.
	ErrRateLimited = errors.New("search limit reached, try again in a minute")

	// ErrNoResults indicates a well-formed response with zero places.
	// This is a terminal success state, not a hard failure.
	ErrNoResults = errors.New("no places matched the query")

	// ErrAlreadyLoading indicates a page load is already in flight.
	ErrAlreadyLoading = errors.New("a page load is already in flight")

	// ErrNoMoreResults indicates pagination is exhausted.
	ErrNoMoreResults = errors.New("no more results available")

	// ErrSuperseded indicates an in-flight request's response arrived
	// after a newer search was submitted and was discarded without
	// mutating session state.
	ErrSuperseded = errors.New("search superseded by a newer submission")

	// ErrDecoding indicates the top-level response shape was unexpected.
	ErrDecoding = errors.New("failed to decode search response")

	// ErrNoPhotoAvailable indicates the place carries no photo references.
	ErrNoPhotoAvailable = errors.New("place has no photos")

	// ErrMalformedPhotoRef indicates a photo reference that cannot be
	// resolved into an image URL.
	ErrMalformedPhotoRef = errors.New("malformed photo reference")
)

// TransportKind classifies transport-level failures.
type TransportKind string

const (
	TransportTimeout      TransportKind = "timeout"
	TransportServerError  TransportKind = "server_error"
	TransportNoConnection TransportKind = "no_connection"
	TransportImageLoad    TransportKind = "image_load"
)

// TransportError represents a failed HTTP exchange with the search or image
// provider.
type TransportError struct {
	Kind       TransportKind
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport failure (%s, status %d)", e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport failure (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("transport failure (%s)", e.Kind)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the condition may succeed on a later attempt.
func Retryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, ErrOffline) || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrDecoding)
}
