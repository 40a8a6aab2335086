package location

import (
	"sync"

	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/models"
)

// Provider is a config-backed position source. It answers "where is the
// user right now" for searches that enable location bias without supplying
// coordinates. The fix can be updated at runtime, absence of a fix is a
// normal state rather than an error.
type Provider struct {
	mu       sync.RWMutex
	fix      *models.Location
	locality string
}

// NewProvider builds a provider seeded from configuration. A config with
// only one coordinate set yields no fix.
func NewProvider(cfg *common.LocationConfig) *Provider {
	p := &Provider{}
	if cfg != nil {
		p.locality = cfg.Locality
		if cfg.Latitude != nil && cfg.Longitude != nil {
			p.fix = &models.Location{
				Latitude:  *cfg.Latitude,
				Longitude: *cfg.Longitude,
			}
		}
	}
	return p
}

// Current returns the latest fix, or false when none is available.
func (p *Provider) Current() (*models.Location, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.fix == nil {
		return nil, false
	}
	loc := *p.fix
	return &loc, true
}

// Locality returns the human-readable locality label, empty when unknown.
func (p *Provider) Locality() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.locality
}

// Update replaces the current fix.
func (p *Provider) Update(loc models.Location, locality string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fix := loc
	p.fix = &fix
	p.locality = locality
}

// Clear drops the current fix.
func (p *Provider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fix = nil
	p.locality = ""
}
