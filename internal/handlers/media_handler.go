package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/loci/internal/interfaces"
	"github.com/ternarybob/loci/internal/models"
)

// MediaHandler serves place photos through the media service
type MediaHandler struct {
	searchService interfaces.SearchService
	mediaService  interfaces.MediaService
	logger        arbor.ILogger
}

// NewMediaHandler creates a new media handler with dependencies
func NewMediaHandler(searchService interfaces.SearchService, mediaService interfaces.MediaService, logger arbor.ILogger) *MediaHandler {
	return &MediaHandler{
		searchService: searchService,
		mediaService:  mediaService,
		logger:        logger,
	}
}

// PhotoHandler handles GET /api/places/{id}/photo requests. The place is
// looked up in the current session's results; its first photo is served
// from cache or fetched on demand.
func (h *MediaHandler) PhotoHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	placeID := extractPlaceID(r.URL.Path)
	if placeID == "" {
		WriteError(w, http.StatusBadRequest, "Missing place ID")
		return
	}

	place := h.findPlace(placeID)
	if place == nil {
		WriteError(w, http.StatusNotFound, "Place not found in current results")
		return
	}

	img, err := h.mediaService.FetchImage(r.Context(), place)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn().
				Err(err).
				Str("place_id", placeID).
				Msg("Photo fetch failed")
		}
		WriteServiceError(w, err)
		return
	}

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}

// findPlace locates a place by ID in the active session snapshot.
func (h *MediaHandler) findPlace(placeID string) *models.Place {
	snapshot := h.searchService.Snapshot()
	for i := range snapshot.Results {
		if snapshot.Results[i].ID == placeID {
			return &snapshot.Results[i]
		}
	}
	return nil
}

// extractPlaceID parses /api/places/{id}/photo
func extractPlaceID(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/places/")
	if trimmed == path {
		return ""
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] != "photo" {
		return ""
	}
	return parts[0]
}
