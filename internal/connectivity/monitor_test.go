package connectivity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/loci/internal/common"
)

func TestProbeReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := &common.ConnectivityConfig{
		ProbeURL:      srv.URL,
		ProbeInterval: time.Hour,
		ProbeTimeout:  2 * time.Second,
	}
	m := NewMonitor(cfg, nil, nil)

	m.probe(context.Background())

	if !m.IsOnline() {
		t.Error("monitor should report online after successful probe")
	}
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // probe target is gone

	cfg := &common.ConnectivityConfig{
		ProbeURL:      srv.URL,
		ProbeInterval: time.Hour,
		ProbeTimeout:  time.Second,
	}
	m := NewMonitor(cfg, nil, nil)

	m.probe(context.Background())

	if m.IsOnline() {
		t.Error("monitor should report offline after failed probe")
	}
}

func TestNonSuccessStatusStillCountsAsOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := &common.ConnectivityConfig{
		ProbeURL:      srv.URL,
		ProbeInterval: time.Hour,
		ProbeTimeout:  2 * time.Second,
	}
	m := NewMonitor(cfg, nil, nil)

	m.probe(context.Background())

	if !m.IsOnline() {
		t.Error("any HTTP response means the network is reachable")
	}
}

func TestStartStop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := &common.ConnectivityConfig{
		ProbeURL:      srv.URL,
		ProbeInterval: 10 * time.Millisecond,
		ProbeTimeout:  time.Second,
	}
	m := NewMonitor(cfg, nil, nil)

	m.Start(context.Background())
	time.Sleep(50 * time.Millisecond)
	m.Stop()

	if !m.IsOnline() {
		t.Error("monitor should be online while probe target responds")
	}

	// Stop is idempotent.
	m.Stop()
}
