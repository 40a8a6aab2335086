// -----------------------------------------------------------------------
// Last Modified: Tuesday, 14th October 2025 3:12:09 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/connectivity"
	"github.com/ternarybob/loci/internal/handlers"
	"github.com/ternarybob/loci/internal/httpclient"
	"github.com/ternarybob/loci/internal/interfaces"
	"github.com/ternarybob/loci/internal/location"
	"github.com/ternarybob/loci/internal/mediacache"
	"github.com/ternarybob/loci/internal/placesapi"
	"github.com/ternarybob/loci/internal/ratelimit"
	"github.com/ternarybob/loci/internal/services/events"
	"github.com/ternarybob/loci/internal/services/media"
	"github.com/ternarybob/loci/internal/services/search"
)

// App holds all application components and dependencies
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Version string

	ctx       context.Context
	cancelCtx context.CancelFunc

	// Core signals
	EventService interfaces.EventService
	Monitor      *connectivity.Monitor
	RateGate     *ratelimit.Limiter
	Locations    *location.Provider

	// Domain services
	PlacesClient  *placesapi.Client
	SearchService interfaces.SearchService
	MediaService  interfaces.MediaService
	MediaCache    *mediacache.Cache

	// HTTP handlers
	SearchHandler *handlers.SearchHandler
	MediaHandler  *handlers.MediaHandler
	StatusHandler *handlers.StatusHandler
	WSHandler     *handlers.WebSocketHandler
}

// New creates the application, wiring services bottom-up: event bus and
// connectivity first, then the search and media services, then handlers.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Search.Endpoint == "" {
		return nil, fmt.Errorf("search endpoint is not configured (search.endpoint)")
	}
	if logger == nil {
		logger = common.GetLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		Config:    config,
		Logger:    logger,
		Version:   common.GetVersion(),
		ctx:       ctx,
		cancelCtx: cancel,
	}

	// Event bus
	app.EventService = events.NewService(logger)

	// Connectivity monitor begins probing immediately
	app.Monitor = connectivity.NewMonitor(&config.Connectivity, app.EventService, logger)
	app.Monitor.Start(ctx)

	// Search submission quota
	app.RateGate = ratelimit.New(config.RateLimit.Capacity, config.RateLimit.SlotTTL, logger)

	// Fallback position fix from config
	app.Locations = location.NewProvider(&config.Location)

	// Search endpoint client
	app.PlacesClient = placesapi.NewClient(
		config.Search.Endpoint,
		placesapi.WithHTTPClient(httpclient.NewDefaultHTTPClient(config.Search.RequestTimeout)),
		placesapi.WithLogger(logger),
		placesapi.WithRateLimit(config.Search.RatePerSecond),
	)

	// Search orchestration
	app.SearchService = search.NewService(
		app.PlacesClient,
		app.RateGate,
		app.Monitor,
		app.Locations,
		app.EventService,
		&config.Search,
		logger,
	)

	// Media retrieval with bounded cache
	app.MediaCache = mediacache.New(config.Cache.Capacity)
	app.MediaService = media.NewService(&config.Photos, app.MediaCache, logger)

	// HTTP handlers
	app.SearchHandler = handlers.NewSearchHandler(app.SearchService, logger)
	app.MediaHandler = handlers.NewMediaHandler(app.SearchService, app.MediaService, logger)
	app.StatusHandler = handlers.NewStatusHandler(app.Monitor, app.RateGate, app.MediaService, logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, app.Monitor, logger)

	logger.Info().
		Str("environment", config.Environment).
		Int("rate_capacity", config.RateLimit.Capacity).
		Int("cache_capacity", config.Cache.Capacity).
		Msg("Application initialized")

	return app, nil
}

// Close shuts down background services in reverse dependency order
func (a *App) Close() error {
	a.Logger.Info().Msg("Shutting down application...")

	a.cancelCtx()
	a.Monitor.Stop()

	if err := a.EventService.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Event service close failed")
	}

	a.Logger.Info().Msg("Application stopped")
	return nil
}
