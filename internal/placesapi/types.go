// Package placesapi provides a client for the remote place-search endpoint.
// This package centralizes all search endpoint interactions for the
// application; the wire schema is treated as an opaque JSON contract.
package placesapi

import (
	"github.com/ternarybob/loci/internal/models"
)

// SearchResponse is the top-level search endpoint response. The places list
// must decode cleanly; individual records decode permissively per field.
type SearchResponse struct {
	Places     []PlaceRecord          `json:"places,omitempty"`
	AIResponse map[string]interface{} `json:"aiResponse,omitempty"`
	SearchID   string                 `json:"searchId,omitempty"`
}

// PlaceRecord represents a single place record from the search endpoint.
// Every field is optional; a record missing a field is accepted with that
// field absent.
type PlaceRecord struct {
	DisplayName     *LocalizedText `json:"displayName,omitempty"`
	Rating          *float64       `json:"rating,omitempty"`
	UserRatingCount *int           `json:"userRatingCount,omitempty"`
	Location        *LatLng        `json:"location,omitempty"`
	GoogleMapsURI   *string        `json:"googleMapsUri,omitempty"`
	Photos          []PhotoRecord  `json:"photos,omitempty"`
}

// LocalizedText is a provider text value with a language tag
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// LatLng represents a geographic coordinate
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PhotoRecord represents a photo reference attached to a place record
type PhotoRecord struct {
	Name     string `json:"name"`
	WidthPx  *int   `json:"widthPx,omitempty"`
	HeightPx *int   `json:"heightPx,omitempty"`
}

// searchRequestBody is the JSON body posted to the search endpoint.
type searchRequestBody struct {
	Query     string   `json:"query"`
	Page      int      `json:"page,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Radius    int      `json:"radius,omitempty"`
	Country   string   `json:"country,omitempty"`
}

func newSearchRequestBody(req *models.SearchRequest) searchRequestBody {
	body := searchRequestBody{
		Query:   req.Query,
		Page:    req.Page,
		Radius:  req.RadiusMeters,
		Country: req.Country,
	}
	if req.Location != nil {
		lat := req.Location.Latitude
		lon := req.Location.Longitude
		body.Latitude = &lat
		body.Longitude = &lon
	}
	return body
}
