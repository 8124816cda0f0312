package events

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// OwnerFunc extracts the owner of a request. ok is false when the
// request carries no valid owner.
type OwnerFunc func(r *http.Request) (owner string, ok bool)

// Handler upgrades GET requests to a websocket that streams the owner's
// change events. Clients are not expected to send anything; reads only
// keep the connection alive and detect the close.
func (h *Hub) Handler(owner OwnerFunc, allowedOrigins []string) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := owner(r)
		if !ok {
			http.Error(w, "missing or invalid user id", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied.
			h.log.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
			return
		}

		client := h.Register(id)
		done := make(chan struct{})
		go h.writePump(conn, client, done)

		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		h.Unregister(client)
		<-done
		conn.Close()
	})
}

func (h *Hub) writePump(conn *websocket.Conn, client *Client, done chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				// Unblock the read loop so the handler can unregister.
				conn.Close()
				drain(client.Send)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				drain(client.Send)
				return
			}
		}
	}
}

// drain consumes Send until Unregister closes it.
func drain(ch <-chan []byte) {
	for range ch {
	}
}
