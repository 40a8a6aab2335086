package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/loci/internal/common"
	"github.com/ternarybob/loci/internal/interfaces"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

type WebSocketHandler struct {
	logger            arbor.ILogger
	clients           map[*websocket.Conn]bool
	clientMutex       map[*websocket.Conn]*sync.Mutex
	mu                sync.RWMutex
	eventService      interfaces.EventService
	monitor           interfaces.ConnectivityMonitor
	progressThrottler *rate.Limiter // Rate limiter for search_page_appended events
	serverInstanceID  string        // Unique ID generated on startup - clients use to detect server restart
}

func NewWebSocketHandler(eventService interfaces.EventService, monitor interfaces.ConnectivityMonitor, logger arbor.ILogger) *WebSocketHandler {
	if logger == nil {
		logger = common.GetLogger()
	}
	h := &WebSocketHandler{
		logger:            logger,
		clients:           make(map[*websocket.Conn]bool),
		clientMutex:       make(map[*websocket.Conn]*sync.Mutex),
		eventService:      eventService,
		monitor:           monitor,
		progressThrottler: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		serverInstanceID:  uuid.New().String(),
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized with server instance ID")

	if eventService != nil {
		h.subscribeToSearchEvents()
	}

	return h
}

// WSMessage is the envelope for all outbound WebSocket messages
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StatusUpdate is sent to a client on connect so the UI can render
// the connectivity banner immediately.
type StatusUpdate struct {
	Status           string `json:"status"`
	Online           bool   `json:"online"`
	ServerInstanceID string `json:"serverInstanceId"` // Unique ID per server startup - clients clear state on change
}

// HandleWebSocket handles WebSocket connections
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", len(h.clients))

	// Send initial status
	h.sendStatus(conn)

	// Handle client disconnection
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", clientCount)
	}()

	// Read messages from client (keep connection alive)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHandler) Broadcast(msgType string, payload interface{}) {
	msg := WSMessage{
		Type:    msgType,
		Payload: payload,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msgType).Msg("Failed to marshal WebSocket message")
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		mutex := mutexes[i]
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutex.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Str("type", msgType).Msg("Failed to send message to client")
		}
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// sendStatus sends current status to a specific client
func (h *WebSocketHandler) sendStatus(conn *websocket.Conn) {
	online := true
	if h.monitor != nil {
		online = h.monitor.IsOnline()
	}

	status := StatusUpdate{
		Status:           "ONLINE",
		Online:           online,
		ServerInstanceID: h.serverInstanceID,
	}
	if !online {
		status.Status = "OFFLINE"
	}

	msg := WSMessage{
		Type:    "status",
		Payload: status,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal initial status")
		return
	}

	h.mu.RLock()
	mutex := h.clientMutex[conn]
	h.mu.RUnlock()

	if mutex != nil {
		mutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutex.Unlock()

		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to send initial status")
		}
	}
}

// subscribeToSearchEvents forwards search lifecycle and connectivity events
// to connected clients.
func (h *WebSocketHandler) subscribeToSearchEvents() {
	h.eventService.Subscribe(interfaces.EventSearchStarted, func(ctx context.Context, event interfaces.Event) error {
		h.Broadcast(string(interfaces.EventSearchStarted), event.Payload)
		return nil
	})

	h.eventService.Subscribe(interfaces.EventSearchCompleted, func(ctx context.Context, event interfaces.Event) error {
		h.Broadcast(string(interfaces.EventSearchCompleted), event.Payload)
		return nil
	})

	h.eventService.Subscribe(interfaces.EventSearchFailed, func(ctx context.Context, event interfaces.Event) error {
		h.Broadcast(string(interfaces.EventSearchFailed), event.Payload)
		return nil
	})

	h.eventService.Subscribe(interfaces.EventSearchPageAppended, func(ctx context.Context, event interfaces.Event) error {
		// Throttle page-append events to prevent WebSocket flooding during
		// rapid load-more sequences
		if h.progressThrottler != nil && !h.progressThrottler.Allow() {
			return nil
		}
		h.Broadcast(string(interfaces.EventSearchPageAppended), event.Payload)
		return nil
	})

	h.eventService.Subscribe(interfaces.EventConnectivityChanged, func(ctx context.Context, event interfaces.Event) error {
		h.Broadcast(string(interfaces.EventConnectivityChanged), event.Payload)
		return nil
	})
}
