// Package httpclient constructs HTTP clients and classifies transport
// failures into the typed error taxonomy consumed by the services.
package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/ternarybob/loci/internal/models"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// ClassifyRequestError maps a transport-level error from http.Client.Do into
// a typed TransportError. Timeouts (client timeout, context deadline) become
// TransportTimeout; everything else is treated as no connection.
func ClassifyRequestError(err error) *models.TransportError {
	kind := models.TransportNoConnection

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = models.TransportTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = models.TransportTimeout
	}

	return &models.TransportError{Kind: kind, Err: err}
}

// ClassifyStatus maps a non-2xx response status into a typed TransportError.
func ClassifyStatus(statusCode int) *models.TransportError {
	kind := models.TransportServerError
	if statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout {
		kind = models.TransportTimeout
	}
	return &models.TransportError{Kind: kind, StatusCode: statusCode}
}

// IsSuccess reports whether the status code is in the 2xx range.
func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
