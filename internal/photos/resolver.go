// Package photos resolves provider photo references into fetchable image
// URLs. Resolution is a pure function with no network access.
package photos

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ternarybob/loci/internal/models"
)

const (
	// DefaultBaseURL is the image provider base URL.
	DefaultBaseURL = "https://places.googleapis.com/v1"

	// DefaultMaxWidthPx and DefaultMaxHeightPx bound the requested image
	// dimensions.
	DefaultMaxWidthPx  = 800
	DefaultMaxHeightPx = 800
)

// Options configures URL resolution.
type Options struct {
	BaseURL     string
	MaxWidthPx  int
	MaxHeightPx int
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.MaxWidthPx <= 0 {
		o.MaxWidthPx = DefaultMaxWidthPx
	}
	if o.MaxHeightPx <= 0 {
		o.MaxHeightPx = DefaultMaxHeightPx
	}
	return o
}

// ResolveURL maps a photo reference name of the form
// places/<placeId>/photos/<photoId> to the image provider URL for that
// photo. Fails with models.ErrMalformedPhotoRef when the name has fewer
// than four segments or empty identifiers.
func ResolveURL(name string, opts Options) (string, error) {
	parts := strings.Split(name, "/")
	if len(parts) < 4 {
		return "", models.ErrMalformedPhotoRef
	}

	placeID := parts[1]
	photoID := parts[3]
	if placeID == "" || photoID == "" {
		return "", models.ErrMalformedPhotoRef
	}

	opts = opts.withDefaults()

	params := url.Values{}
	params.Set("maxWidthPx", fmt.Sprintf("%d", opts.MaxWidthPx))
	params.Set("maxHeightPx", fmt.Sprintf("%d", opts.MaxHeightPx))
	params.Set("idType", "photo_reference")

	return fmt.Sprintf("%s/places/%s/photos/%s/media?%s",
		strings.TrimSuffix(opts.BaseURL, "/"), placeID, photoID, params.Encode()), nil
}
