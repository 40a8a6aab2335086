package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/loci/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError translates a service error into a single user-facing
// message with a retryable flag. Every service failure passes through here;
// nothing propagates as an unhandled fault.
func WriteServiceError(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError
	code := "internal"

	var te *models.TransportError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status, code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, models.ErrLocationRequired):
		status, code = http.StatusBadRequest, "location_required"
	case errors.Is(err, models.ErrOffline):
		status, code = http.StatusServiceUnavailable, "offline"
	case errors.Is(err, models.ErrRateLimited):
		status, code = http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, models.ErrAlreadyLoading):
		status, code = http.StatusConflict, "already_loading"
	case errors.Is(err, models.ErrSuperseded):
		status, code = http.StatusConflict, "superseded"
	case errors.Is(err, models.ErrNoPhotoAvailable):
		status, code = http.StatusNotFound, "no_photo"
	case errors.Is(err, models.ErrMalformedPhotoRef):
		status, code = http.StatusUnprocessableEntity, "malformed_photo_ref"
	case errors.Is(err, models.ErrDecoding):
		status, code = http.StatusBadGateway, "decoding_error"
	case errors.As(err, &te):
		status, code = http.StatusBadGateway, "transport_"+string(te.Kind)
		if te.Kind == models.TransportTimeout {
			status = http.StatusGatewayTimeout
		}
	}

	return WriteJSON(w, status, map[string]interface{}{
		"status":    "error",
		"code":      code,
		"error":     err.Error(),
		"retryable": models.Retryable(err),
	})
}
