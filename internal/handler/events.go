package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"viralcoin/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type sessionEvent struct {
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Session   domain.WalletSession `json:"session"`
}

// Events streams wallet session snapshots over a websocket, starting with the current one.
func (h *WalletHandler) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Watch()
	defer cancel()

	h.logger.Info("WebSocket client connected", nil)

	// Reads only detect the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
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
		case session, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(sessionEvent{Type: "session", Timestamp: time.Now().UTC(), Session: session}); err != nil {
				h.logger.Debug("WebSocket write failed", map[string]interface{}{"error": err.Error()})
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			h.logger.Info("WebSocket client disconnected", nil)
			return
		case <-r.Context().Done():
			return
		}
	}
}
