// Package media implements place photo retrieval: resolve the photo
// reference, consult the bounded cache, and fetch through the image host on
// a miss.
package media

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"time"

	// Registered decoders for image dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/httpclient"
	"github.com/ternarybob/loci/internal/mediacache"
	"github.com/ternarybob/loci/internal/models"
	"github.com/ternarybob/loci/internal/photos"
)

// DefaultRateLimit is the default politeness limit towards the image host
// (requests per second).
const DefaultRateLimit = 10

// Service implements the MediaService interface
type Service struct {
	cache      *mediacache.Cache
	httpClient *http.Client
	limiter    *rate.Limiter
	resolver   photos.Options
	logger     arbor.ILogger
}

// NewService creates a new media retrieval service
func NewService(cfg *common.PhotosConfig, cache *mediacache.Cache, logger arbor.ILogger) *Service {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = DefaultRateLimit
	}
	if cache == nil {
		cache = mediacache.New(mediacache.DefaultCapacity)
	}
	if logger == nil {
		logger = common.GetLogger()
	}

	return &Service{
		cache:      cache,
		httpClient: httpclient.NewDefaultHTTPClient(cfg.RequestTimeout),
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		resolver: photos.Options{
			BaseURL:     cfg.BaseURL,
			MaxWidthPx:  cfg.MaxWidthPx,
			MaxHeightPx: cfg.MaxHeightPx,
		},
		logger: logger,
	}
}

// FetchImage returns the first photo of the place. Cache hits return
// without any network call; concurrent fetches for the same URL may race,
// in which case the last cache write wins.
func (s *Service) FetchImage(ctx context.Context, place *models.Place) (*models.Image, error) {
	if place == nil || len(place.PhotoRefs) == 0 {
		return nil, models.ErrNoPhotoAvailable
	}

	url, err := photos.ResolveURL(place.PhotoRefs[0].Name, s.resolver)
	if err != nil {
		return nil, err
	}

	if img, ok := s.cache.Get(url); ok {
		s.logger.Debug().
			Str("place_id", place.ID).
			Str("url", url).
			Msg("Image cache hit")
		return img, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &models.TransportError{Kind: models.TransportImageLoad, Err: err}
	}

	img, err := s.fetch(ctx, url)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("place_id", place.ID).
			Str("url", url).
			Msg("Image fetch failed")
		return nil, err
	}

	s.cache.Put(url, img)

	s.logger.Debug().
		Str("place_id", place.ID).
		Str("url", url).
		Int("bytes", len(img.Data)).
		Int("width", img.Width).
		Int("height", img.Height).
		Msg("Image fetched and cached")

	return img, nil
}

// CacheLen reports the number of cached images.
func (s *Service) CacheLen() int {
	return s.cache.Len()
}

// fetch retrieves and decodes one image. All failures, including undecodable
// bytes, are classified as image-load transport failures.
func (s *Service) fetch(ctx context.Context, url string) (*models.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.TransportError{Kind: models.TransportImageLoad, Err: err}
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &models.TransportError{Kind: models.TransportImageLoad, Err: err}
	}
	defer resp.Body.Close()

	if !httpclient.IsSuccess(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return nil, &models.TransportError{Kind: models.TransportImageLoad, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{Kind: models.TransportImageLoad, Err: err}
	}

	img := &models.Image{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}

	if config, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = config.Width
		img.Height = config.Height
	}

	s.logger.Debug().
		Str("url", url).
		Dur("elapsed", time.Since(start)).
		Msg("Image GET completed")

	return img, nil
}
