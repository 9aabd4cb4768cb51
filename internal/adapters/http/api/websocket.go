package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okian/bhoomi/pkg/logger"
)

// Stream limits.
const (
	streamWriteWait  = 10 * time.Second
	streamReadLimit  = 512
	streamBufferSize = 4096
)

// StreamHandler pushes every published snapshot to WebSocket clients.
type StreamHandler struct {
	deps         Dependencies
	logger       logger.Logger
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

type streamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps Dependencies, log logger.Logger, pingInterval time.Duration) *StreamHandler {
	if log == nil {
		log = logger.Get()
	}
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	return &StreamHandler{
		deps:         deps,
		logger:       log.Named("stream"),
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  streamBufferSize,
			WriteBufferSize: streamBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// HandleStream handles GET /ws. The newest snapshot, if any, is sent first.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	updates, cancel, err := h.deps.Subscribe()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(ctx, "websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Debug(ctx, "stream client connected", logger.String("remote", r.RemoteAddr))

	pongWait := h.pingInterval + h.pingInterval/9
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn(ctx, "stream read failed", logger.Error(err))
				}
				return
			}
		}
	}()

	if snap, err := h.deps.LastSnapshot(); err == nil {
		if err := h.send(conn, snap); err != nil {
			return
		}
	}

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			h.logger.Debug(ctx, "stream client disconnected", logger.String("remote", r.RemoteAddr))
			return
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(streamWriteWait))
				return
			}
			if err := h.send(conn, snap); err != nil {
				h.logger.Debug(ctx, "stream write failed", logger.Error(err))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, snap Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(streamMessage{Type: "snapshot", Data: snap})
}
