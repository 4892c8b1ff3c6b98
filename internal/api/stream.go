package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"botdemo/internal/metrics"
	"botdemo/internal/sequence"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamSession handles GET /api/v1/demo/sessions/:id/stream.
// It sends the current snapshot, then every machine event as a JSON text
// message until the client goes away or the session is closed.
func (h *APIHandler) StreamSession(c *gin.Context) {
	id := c.Param("id")
	m, err := h.deps.Sessions.Get(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", "session_id", id, "error", err)
		return
	}
	metrics.WSConnections.Inc()
	defer func() {
		metrics.WSConnections.Dec()
		conn.Close()
	}()

	events := make(chan sequence.Event, streamBuffer)
	unsubscribe := m.Subscribe(func(ev sequence.Event) {
		select {
		case events <- ev:
		default:
			// Slow reader; the next snapshot request resynchronises it.
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go h.readStream(conn, closed)

	if err := h.writeJSON(conn, sessionResponse{ID: id, Snapshot: m.Snapshot()}); err != nil {
		return
	}

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case ev := <-events:
			if err := h.writeJSON(conn, ev); err != nil {
				h.logger.Debug("Websocket write failed", "session_id", id, "error", err)
				return
			}
		case <-ping.C:
			// Keep the session alive while someone is watching it.
			if _, err := h.deps.Sessions.Get(id); err != nil {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-m.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
				time.Now().Add(streamWriteWait))
			return
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

// readStream drains client frames so pongs and close frames are processed.
func (h *APIHandler) readStream(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *APIHandler) writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(v)
}
