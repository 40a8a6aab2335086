package interfaces

import (
	"context"

	"github.com/ternarybob/loci/internal/models"
)

// MediaService retrieves place photos through the image provider, backed by
// a bounded in-memory cache.
type MediaService interface {
	// FetchImage returns the first photo of the place, from cache when
	// warm. Fails with models.ErrNoPhotoAvailable when the place has no
	// photo references.
	FetchImage(ctx context.Context, place *models.Place) (*models.Image, error)

	// CacheLen reports the number of cached images.
	CacheLen() int
}
