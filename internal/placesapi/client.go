package placesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/loci/internal/httpclient"
	"github.com/ternarybob/loci/internal/models"
)

const (
	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default politeness limit towards the
	// endpoint (requests per second). This is independent of the
	// client-side submission quota enforced by the orchestrator.
	DefaultRateLimit = 5
)

// Client is a search endpoint client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom politeness limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new search endpoint client.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: httpclient.NewDefaultHTTPClient(DefaultTimeout),
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search posts one page request to the search endpoint and decodes the
// response. Transport and status failures are returned as typed
// *models.TransportError; an unexpected top-level shape is returned as
// models.ErrDecoding.
func (c *Client) Search(ctx context.Context, req *models.SearchRequest) (*SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, httpclient.ClassifyRequestError(err)
	}

	payload, err := json.Marshal(newSearchRequestBody(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if c.logger != nil {
		c.logger.Debug().
			Str("endpoint", c.endpoint).
			Str("query", req.Query).
			Int("page", req.Page).
			Msg("Search endpoint request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, httpclient.ClassifyRequestError(err)
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return nil, httpclient.ClassifyStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httpclient.ClassifyRequestError(err)
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecoding, err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("query", req.Query).
			Int("page", req.Page).
			Int("results_count", len(result.Places)).
			Str("search_id", result.SearchID).
			Msg("Search endpoint response decoded")
	}

	return &result, nil
}
