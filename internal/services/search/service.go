// Package search implements the search orchestration core: it turns user
// intent into a throttled, paginated, cancellable sequence of requests
// against the search endpoint and maintains the session result state.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/interfaces"
	"github.com/ternarybob/loci/internal/models"
	"github.com/ternarybob/loci/internal/placesapi"
)

// MinQueryLength is the minimum trimmed query length accepted by
// SubmitSearch.
const MinQueryLength = 3

// sessionState is the mutable search session. It is only read or written
// under Service.mu; responses whose generation is stale never touch it.
type sessionState struct {
	query         string
	page          int
	results       []models.Place
	hasMore       bool
	isLoading     bool
	isLoadingMore bool
	lastErr       error

	// Request parameters carried across pages of the same session.
	location *models.Location
	radius   int
	country  string
}

// Service implements the SearchService interface
type Service struct {
	client    *placesapi.Client
	gate      interfaces.RateGate
	monitor   interfaces.ConnectivityMonitor
	locations interfaces.LocationProvider
	events    interfaces.EventService
	logger    arbor.ILogger
	validate  *validator.Validate

	pageSize  int
	minRating float64
	country   string

	mu         sync.Mutex
	generation uint64
	session    sessionState
}

// NewService creates a new search orchestration service
func NewService(
	client *placesapi.Client,
	gate interfaces.RateGate,
	monitor interfaces.ConnectivityMonitor,
	locations interfaces.LocationProvider,
	events interfaces.EventService,
	cfg *common.SearchConfig,
	logger arbor.ILogger,
) *Service {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	minRating := cfg.MinRating
	if minRating <= 0 {
		minRating = 3.0
	}
	if logger == nil {
		logger = common.GetLogger()
	}

	return &Service{
		client:    client,
		gate:      gate,
		monitor:   monitor,
		locations: locations,
		events:    events,
		logger:    logger,
		validate:  validator.New(),
		pageSize:  pageSize,
		minRating: minRating,
		country:   cfg.Country,
	}
}

// SubmitSearch starts a fresh search. Preconditions are checked in order:
// query length, location fix, connectivity, then the rate gate. On
// acceptance the session is reset, superseding any in-flight request for a
// previous query.
func (s *Service) SubmitSearch(ctx context.Context, opts interfaces.SearchOptions) (*models.SessionSnapshot, error) {
	query := strings.TrimSpace(opts.Query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, models.ErrInvalidInput
	}

	var location *models.Location
	if opts.LocationEnabled {
		location = opts.Location
		if location == nil && s.locations != nil {
			if current, ok := s.locations.Current(); ok {
				location = current
			}
		}
		if location == nil {
			return nil, models.ErrLocationRequired
		}
	}

	country := opts.Country
	if country == "" {
		country = s.country
	}

	req := &models.SearchRequest{
		Query:        query,
		Page:         1,
		Location:     location,
		RadiusMeters: opts.RadiusMeters,
		Country:      country,
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, models.ErrInvalidInput
	}

	if s.monitor != nil && !s.monitor.IsOnline() {
		return nil, models.ErrOffline
	}

	if s.gate != nil && !s.gate.TryAcquire() {
		s.logger.Warn().
			Str("query", query).
			Msg("Search submission rejected by rate limiter")
		return nil, models.ErrRateLimited
	}

	// Accepted: start a new generation and reset the session. Any response
	// still in flight for an older generation is dropped on arrival.
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.session = sessionState{
		query:     query,
		page:      1,
		results:   []models.Place{},
		isLoading: true,
		location:  location,
		radius:    opts.RadiusMeters,
		country:   country,
	}
	s.mu.Unlock()

	s.logger.Info().
		Str("query", query).
		Bool("location_enabled", opts.LocationEnabled).
		Int("radius_meters", opts.RadiusMeters).
		Msg("Starting fresh search")

	s.publishEvent(interfaces.EventSearchStarted, map[string]interface{}{
		"query":            query,
		"location_enabled": opts.LocationEnabled,
	})

	resp, err := s.client.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// A newer search was submitted while this one was in flight.
		return nil, models.ErrSuperseded
	}

	s.session.isLoading = false

	if err != nil {
		s.session.lastErr = err
		s.session.results = []models.Place{}
		s.session.hasMore = false

		s.logger.Warn().
			Err(err).
			Str("query", query).
			Msg("Fresh search failed")
		s.publishEvent(interfaces.EventSearchFailed, map[string]interface{}{
			"query": query,
			"phase": "fresh",
			"error": err.Error(),
		})
		return nil, err
	}

	rawCount := len(resp.Places)
	if rawCount == 0 {
		s.session.hasMore = false
		s.session.lastErr = nil

		s.logger.Info().
			Str("query", query).
			Msg("Search returned no places")
		s.publishEvent(interfaces.EventSearchCompleted, map[string]interface{}{
			"query":         query,
			"total_results": 0,
			"has_more":      false,
		})
		return s.snapshotLocked(), models.ErrNoResults
	}

	s.session.results = s.filterPlaces(resp.Places)
	s.session.hasMore = rawCount >= s.pageSize
	s.session.lastErr = nil

	s.logger.Info().
		Str("query", query).
		Int("raw_count", rawCount).
		Int("filtered_count", len(s.session.results)).
		Bool("has_more", s.session.hasMore).
		Msg("Fresh search completed")

	s.publishEvent(interfaces.EventSearchCompleted, map[string]interface{}{
		"query":         query,
		"total_results": len(s.session.results),
		"has_more":      s.session.hasMore,
	})

	return s.snapshotLocked(), nil
}

// LoadMore appends the next page to the current result list. A failure
// stops further pagination (hasMore becomes false) but never clears
// already-accumulated results.
func (s *Service) LoadMore(ctx context.Context) (*models.SessionSnapshot, error) {
	s.mu.Lock()

	if s.session.isLoadingMore {
		s.mu.Unlock()
		return nil, models.ErrAlreadyLoading
	}
	if !s.session.hasMore {
		s.mu.Unlock()
		return nil, models.ErrNoMoreResults
	}

	gen := s.generation
	nextPage := s.session.page + 1
	s.session.isLoadingMore = true

	req := &models.SearchRequest{
		Query:        s.session.query,
		Page:         nextPage,
		Location:     s.session.location,
		RadiusMeters: s.session.radius,
		Country:      s.session.country,
	}
	query := s.session.query
	s.mu.Unlock()

	s.logger.Info().
		Str("query", query).
		Int("page", nextPage).
		Msg("Loading next result page")

	resp, err := s.client.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// Superseded by a fresh search; the new session already reset all
		// loading flags, so this response is dropped untouched.
		return nil, models.ErrSuperseded
	}

	s.session.isLoadingMore = false

	if err != nil {
		// Fail closed: stop paginating instead of retrying indefinitely.
		s.session.hasMore = false
		s.session.lastErr = err

		s.logger.Warn().
			Err(err).
			Str("query", query).
			Int("page", nextPage).
			Msg("Load more failed, pagination stopped")
		s.publishEvent(interfaces.EventSearchFailed, map[string]interface{}{
			"query": query,
			"phase": "load_more",
			"page":  nextPage,
			"error": err.Error(),
		})
		return nil, err
	}

	rawCount := len(resp.Places)
	if rawCount == 0 {
		s.session.hasMore = false
		s.session.lastErr = nil
		return s.snapshotLocked(), models.ErrNoMoreResults
	}

	appended := s.filterPlaces(resp.Places)
	s.session.results = append(s.session.results, appended...)
	s.session.page = nextPage
	s.session.hasMore = rawCount >= s.pageSize
	s.session.lastErr = nil

	s.logger.Info().
		Str("query", query).
		Int("page", nextPage).
		Int("appended", len(appended)).
		Int("total_results", len(s.session.results)).
		Bool("has_more", s.session.hasMore).
		Msg("Result page appended")

	s.publishEvent(interfaces.EventSearchPageAppended, map[string]interface{}{
		"query":         query,
		"page":          nextPage,
		"appended":      len(appended),
		"total_results": len(s.session.results),
		"has_more":      s.session.hasMore,
	})

	return s.snapshotLocked(), nil
}

// Snapshot returns a copy of the current session state.
func (s *Service) Snapshot() *models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked builds a snapshot. Caller must hold s.mu.
func (s *Service) snapshotLocked() *models.SessionSnapshot {
	results := make([]models.Place, len(s.session.results))
	copy(results, s.session.results)

	snap := &models.SessionSnapshot{
		Query:         s.session.query,
		Page:          s.session.page,
		Results:       results,
		HasMore:       s.session.hasMore,
		IsLoading:     s.session.isLoading,
		IsLoadingMore: s.session.isLoadingMore,
	}
	if s.session.lastErr != nil {
		snap.LastError = s.session.lastErr.Error()
	}
	return snap
}

// filterPlaces converts raw records to places, keeping insertion order and
// dropping places rated below the minimum. A place without a rating is
// treated as rating 0 and excluded.
func (s *Service) filterPlaces(records []placesapi.PlaceRecord) []models.Place {
	filtered := make([]models.Place, 0, len(records))
	for _, rec := range records {
		if rec.Rating == nil || *rec.Rating < s.minRating {
			continue
		}
		filtered = append(filtered, s.convertPlace(rec))
	}
	return filtered
}

// convertPlace maps a raw record to a Place, generating a fallback ID when
// the maps URI carries no cid parameter.
func (s *Service) convertPlace(rec placesapi.PlaceRecord) models.Place {
	var place models.Place

	if rec.GoogleMapsURI != nil {
		uri := *rec.GoogleMapsURI
		place.MapsURI = &uri
		if cid := models.PlaceIDFromMapsURI(uri); cid != "" {
			place.ID = cid
		}
	}
	if place.ID == "" {
		place.ID = common.NewPlaceID()
	}

	if rec.DisplayName != nil && rec.DisplayName.Text != "" {
		name := rec.DisplayName.Text
		place.DisplayName = &name
	}
	if rec.Rating != nil {
		rating := *rec.Rating
		place.Rating = &rating
	}
	if rec.UserRatingCount != nil {
		count := *rec.UserRatingCount
		place.RatingCount = &count
	}
	if rec.Location != nil {
		place.Location = &models.Location{
			Latitude:  rec.Location.Latitude,
			Longitude: rec.Location.Longitude,
		}
	}
	for _, photo := range rec.Photos {
		if photo.Name != "" {
			place.PhotoRefs = append(place.PhotoRefs, models.PhotoRef{Name: photo.Name})
		}
	}

	return place
}

// publishEvent publishes an event via the event service
func (s *Service) publishEvent(eventType interfaces.EventType, data map[string]interface{}) {
	if s.events == nil {
		return
	}

	data["timestamp"] = time.Now().Format(time.RFC3339)
	event := interfaces.Event{
		Type:    eventType,
		Payload: data,
	}
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Failed to publish event")
	}
}
