package models

import (
	"net/url"
)

// Location represents geographic coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PhotoRef is a provider-internal photo path of the form
// places/<placeId>/photos/<photoId>. It is only used to derive a fetch URL
// and is never persisted.
type PhotoRef struct {
	Name string `json:"name"`
}

// Place represents a single search result.
//
// ID is derived from the cid parameter of the maps URI when present.
// Fallback IDs are generated per response and are not stable across
// requests, so they must not be used as cache keys across sessions.
type Place struct {
	ID          string     `json:"id"`
	DisplayName *string    `json:"display_name,omitempty"`
	Rating      *float64   `json:"rating,omitempty"`
	RatingCount *int       `json:"rating_count,omitempty"`
	Location    *Location  `json:"location,omitempty"`
	MapsURI     *string    `json:"maps_uri,omitempty"`
	PhotoRefs   []PhotoRef `json:"photo_refs,omitempty"`
}

// Equal reports whether two places refer to the same entity. Equality is
// defined by the maps URI when both carry one, falling back to ID.
func (p *Place) Equal(other *Place) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.MapsURI != nil && other.MapsURI != nil {
		return *p.MapsURI == *other.MapsURI
	}
	return p.ID == other.ID
}

// PlaceIDFromMapsURI extracts the cid query parameter from a provider maps
// URI. Returns an empty string when the URI is unparseable or carries no cid.
func PlaceIDFromMapsURI(mapsURI string) string {
	u, err := url.Parse(mapsURI)
	if err != nil {
		return ""
	}
	return u.Query().Get("cid")
}
