package models

// SearchRequest represents one page request against the search endpoint.
// A new instance is constructed per page; instances are never mutated after
// construction.
type SearchRequest struct {
	Query        string    `validate:"required"`
	Page         int       `validate:"min=1"`
	Location     *Location
	RadiusMeters int    `validate:"omitempty,oneof=250 500 1000 5000"`
	Country      string
}

// SessionSnapshot is a read-only copy of the search session state exposed to
// the presentation layer.
type SessionSnapshot struct {
	Query         string  `json:"query"`
	Page          int     `json:"page"`
	Results       []Place `json:"results"`
	HasMore       bool    `json:"has_more"`
	IsLoading     bool    `json:"is_loading"`
	IsLoadingMore bool    `json:"is_loading_more"`
	LastError     string  `json:"last_error,omitempty"`
}
