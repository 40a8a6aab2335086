package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/loci/internal/interfaces"
	"github.com/ternarybob/loci/internal/models"
)

// SearchSubmitRequest is the request body for POST /api/search
type SearchSubmitRequest struct {
	Query           string   `json:"query"`
	LocationEnabled bool     `json:"location_enabled"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	RadiusMeters    int      `json:"radius_meters,omitempty"`
	Country         string   `json:"country,omitempty"`
}

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService interfaces.SearchService
	logger        arbor.ILogger
}

// NewSearchHandler creates a new search handler with dependencies
func NewSearchHandler(searchService interfaces.SearchService, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// SubmitHandler handles POST /api/search requests
func (h *SearchHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SearchSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	opts := interfaces.SearchOptions{
		Query:           req.Query,
		LocationEnabled: req.LocationEnabled,
		RadiusMeters:    req.RadiusMeters,
		Country:         req.Country,
	}
	if req.Latitude != nil && req.Longitude != nil {
		opts.Location = &models.Location{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		}
	}

	if h.logger != nil {
		h.logger.Info().
			Str("query", req.Query).
			Bool("location_enabled", req.LocationEnabled).
			Msg("Search request received")
	}

	snapshot, err := h.searchService.SubmitSearch(r.Context(), opts)
	if err != nil {
		// A well-formed empty response is a terminal success state, not a
		// failure.
		if errors.Is(err, models.ErrNoResults) {
			WriteJSON(w, http.StatusOK, map[string]interface{}{
				"status":  "empty",
				"message": err.Error(),
				"session": snapshot,
			})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"session": snapshot,
	})
}

// LoadMoreHandler handles POST /api/search/more requests
func (h *SearchHandler) LoadMoreHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	snapshot, err := h.searchService.LoadMore(r.Context())
	if err != nil {
		if errors.Is(err, models.ErrNoMoreResults) {
			WriteJSON(w, http.StatusOK, map[string]interface{}{
				"status":  "exhausted",
				"message": err.Error(),
				"session": h.searchService.Snapshot(),
			})
			return
		}
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"session": snapshot,
	})
}

// StateHandler handles GET /api/search/state requests
func (h *SearchHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, h.searchService.Snapshot())
}
