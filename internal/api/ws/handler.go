// Package ws streams directory load events to connected clients so a
// frontend can render packages incrementally while a load settles.
package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/modboard/modboard/internal/directory"
	"github.com/modboard/modboard/internal/infrastructure/logging"
	"github.com/modboard/modboard/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the router
	},
}

// Handler manages WebSocket stream connections.
type Handler struct {
	logger  *logging.Logger
	metrics *monitoring.Metrics

	mu    sync.Mutex
	conns map[*websocket.Conn]*sync.Mutex
}

// NewHandler creates a stream handler.
func NewHandler(logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		metrics: metrics,
		conns:   make(map[*websocket.Conn]*sync.Mutex),
	}
}

// HandleConnection upgrades the request and keeps the connection registered
// until the client goes away. Clients only listen; inbound messages are
// drained and discarded.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.register(conn)
	defer h.unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends a load event to every connected client. Slow or broken
// clients are dropped rather than stalling the load.
func (h *Handler) Broadcast(event directory.Event) {
	h.mu.Lock()
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.conns))
	for conn, wmu := range h.conns {
		targets[conn] = wmu
	}
	h.mu.Unlock()

	for conn, wmu := range targets {
		wmu.Lock()
		err := conn.WriteJSON(event)
		wmu.Unlock()
		if err != nil {
			h.unregister(conn)
			conn.Close()
		}
	}
}

func (h *Handler) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = &sync.Mutex{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
}

func (h *Handler) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()
	if ok && h.metrics != nil {
		h.metrics.WSConnections.Dec()
	}
}
