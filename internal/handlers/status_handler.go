package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/interfaces"
)

// StatusHandler reports service health and runtime counters
type StatusHandler struct {
	monitor      interfaces.ConnectivityMonitor
	gate         interfaces.RateGate
	mediaService interfaces.MediaService
	logger       arbor.ILogger
	startTime    time.Time
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(monitor interfaces.ConnectivityMonitor, gate interfaces.RateGate, mediaService interfaces.MediaService, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		monitor:      monitor,
		gate:         gate,
		mediaService: mediaService,
		logger:       logger,
		startTime:    time.Now(),
	}
}

// StatusResponse is the payload for GET /api/status
type StatusResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Online      bool   `json:"online"`
	ActiveSlots int    `json:"active_slots"`
	SlotLimit   int    `json:"slot_limit"`
	CachedItems int    `json:"cached_items"`
}

// GetStatusHandler handles GET /api/status requests
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	resp := StatusResponse{
		Status:      "ok",
		Version:     common.GetVersion(),
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Online:      h.monitor.IsOnline(),
		ActiveSlots: h.gate.Active(),
		SlotLimit:   h.gate.Capacity(),
		CachedItems: h.mediaService.CacheLen(),
	}
	if !resp.Online {
		resp.Status = "degraded"
	}

	WriteJSON(w, http.StatusOK, resp)
}
