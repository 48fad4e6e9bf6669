package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"clientflow/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// RealtimeHandler streams workspace refresh events to connected dashboard
// clients over a websocket.
type RealtimeHandler struct {
	broadcaster *services.RefreshBroadcaster
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewRealtimeHandler creates the realtime handler.
func NewRealtimeHandler(broadcaster *services.RefreshBroadcaster, logger *slog.Logger) *RealtimeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RealtimeHandler{
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection and forwards refresh events until the
// client goes away.
// GET /api/realtime
func (h *RealtimeHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	subID := uuid.NewString()
	events := h.broadcaster.Subscribe(subID)
	defer func() {
		h.broadcaster.Unsubscribe(subID)
		_ = conn.Close()
	}()

	// Reader goroutine: we only care about the close handshake.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
