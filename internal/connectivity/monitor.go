// Package connectivity observes network reachability by probing a
// well-known endpoint on an interval.
package connectivity

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/httpclient"
	"github.com/ternarybob/loci/internal/interfaces"
)

// Monitor tracks whether the network is reachable. The flag is updated by a
// background probe loop and read before any search request is issued.
type Monitor struct {
	probeURL string
	interval time.Duration
	client   *http.Client
	events   interfaces.EventService
	logger   arbor.ILogger

	online   atomic.Bool
	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewMonitor creates a monitor. The network is assumed reachable until the
// first probe completes.
func NewMonitor(cfg *common.ConnectivityConfig, events interfaces.EventService, logger arbor.ILogger) *Monitor {
	interval := cfg.ProbeInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	m := &Monitor{
		probeURL: cfg.ProbeURL,
		interval: interval,
		client:   httpclient.NewDefaultHTTPClient(cfg.ProbeTimeout),
		events:   events,
		logger:   logger,
		done:     make(chan struct{}),
	}
	m.online.Store(true)
	return m
}

// Start launches the probe loop. An immediate probe runs before the first
// tick so the flag settles quickly after startup.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	go func() {
		defer close(m.done)

		m.probe(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.probe(ctx)
			}
		}
	}()
}

// Stop terminates the probe loop and waits for it to exit.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
			<-m.done
		}
	})
}

// IsOnline reports the last observed reachability state.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

func (m *Monitor) probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		m.setOnline(false)
		return
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.setOnline(false)
		return
	}
	resp.Body.Close()

	// Any response at all means the network is reachable.
	m.setOnline(true)
}

func (m *Monitor) setOnline(online bool) {
	previous := m.online.Swap(online)
	if previous == online {
		return
	}

	if m.logger != nil {
		m.logger.Info().
			Bool("online", online).
			Str("probe_url", m.probeURL).
			Msg("Connectivity changed")
	}

	if m.events != nil {
		event := interfaces.Event{
			Type: interfaces.EventConnectivityChanged,
			Payload: map[string]interface{}{
				"online":    online,
				"timestamp": time.Now().Format(time.RFC3339),
			},
		}
		if err := m.events.Publish(context.Background(), event); err != nil && m.logger != nil {
			m.logger.Warn().Err(err).Msg("Failed to publish connectivity event")
		}
	}
}
