package server

import (
	"net/http"

	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Search session
	mux.HandleFunc("/api/search", s.app.SearchHandler.SubmitHandler)        // POST - fresh search
	mux.HandleFunc("/api/search/more", s.app.SearchHandler.LoadMoreHandler) // POST - next page
	mux.HandleFunc("/api/search/state", s.app.SearchHandler.StateHandler)   // GET - session snapshot

	// API routes - Place media
	mux.HandleFunc("/api/places/", s.app.MediaHandler.PhotoHandler) // GET /{id}/photo

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.versionHandler)
	mux.HandleFunc("/api/health", s.healthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.notFoundHandler)

	return mux
}

// versionHandler returns version information
func (s *Server) versionHandler(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, map[string]string{
		"version": s.app.Version,
		"build":   common.Build,
	})
}

// healthHandler returns basic liveness status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// notFoundHandler returns a JSON 404 for unknown API paths
func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "Not found")
}
