package interfaces

import "github.com/ternarybob/loci/internal/models"

// ConnectivityMonitor exposes the network reachability signal consumed
// before any search request is issued.
type ConnectivityMonitor interface {
	IsOnline() bool
}

// RateGate is the client-side submission quota consulted on every fresh
// search. TryAcquire never blocks; false is an immediate rejection.
type RateGate interface {
	TryAcquire() bool
	Active() int
	Capacity() int
}

// LocationProvider supplies the current position fix when one is available.
// Absence means "location not yet available", never an error.
type LocationProvider interface {
	Current() (*models.Location, bool)

	// Locality returns a human-readable locality string, empty when
	// unknown.
	Locality() string
}
