package interfaces

import (
	"context"

	"github.com/ternarybob/loci/internal/models"
)

// SearchOptions carries the user intent for a fresh search.
type SearchOptions struct {
	// Query is the free-text search query.
	Query string

	// LocationEnabled requests a location-biased search. When true and no
	// location can be resolved, the submission fails with
	// models.ErrLocationRequired.
	LocationEnabled bool

	// Location overrides the location provider when set.
	Location *models.Location

	// RadiusMeters restricts a location-biased search. Zero means
	// provider default; otherwise one of 250, 500, 1000, 5000.
	RadiusMeters int

	// Country optionally biases results to a country.
	Country string
}

// SearchService defines the search orchestration operations exposed to the
// presentation layer.
type SearchService interface {
	// SubmitSearch starts a fresh search, resetting pagination and the
	// accumulated result list. A successful call returns the updated
	// session snapshot. A well-formed empty response returns the snapshot
	// together with models.ErrNoResults.
	SubmitSearch(ctx context.Context, opts SearchOptions) (*models.SessionSnapshot, error)

	// LoadMore appends the next page to the existing result list.
	LoadMore(ctx context.Context) (*models.SessionSnapshot, error)

	// Snapshot returns a copy of the current session state.
	Snapshot() *models.SessionSnapshot
}
