package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modboard/modboard/internal/directory"
	"github.com/modboard/modboard/internal/infrastructure/logging"
)

func TestBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(logging.NewNop(), nil)

	router := gin.New()
	router.GET("/stream", h.HandleConnection)
	ts := httptest.NewServer(router)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Connection registration races the dial returning; poll briefly.
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.conns) == 1
	}, 2*time.Second, 10*time.Millisecond)

	h.Broadcast(directory.Event{Type: "load_started", LoadID: "abc"})

	var event directory.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "load_started", event.Type)
	assert.Equal(t, "abc", event.LoadID)
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(logging.NewNop(), nil)

	router := gin.New()
	router.GET("/stream", h.HandleConnection)
	ts := httptest.NewServer(router)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn.Close()

	// Broadcasting into a closed connection must not panic and must
	// eventually leave the registry empty.
	h.Broadcast(directory.Event{Type: "load_complete"})
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return len(h.conns) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
