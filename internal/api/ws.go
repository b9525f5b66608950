package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hong880226/printer-server/internal/notify"
	"github.com/hong880226/printer-server/internal/state"
)

// update is the frame pushed to every connected view. It always carries the
// full snapshot; the view re-renders from it instead of patching.
type update struct {
	Type          string                `json:"type"`
	State         state.Snapshot        `json:"state"`
	Notifications []notify.Notification `json:"notifications"`
}

// Hub fans view-state and notification changes out to connected browser
// views over WebSocket. Slow connections drop frames rather than block; the
// next change carries the full state anyway.
type Hub struct {
	store    *state.Store
	notifier *notify.Notifier
	upgrader websocket.Upgrader

	pingInterval time.Duration

	mu    sync.Mutex
	conns map[*wsConn]struct{}
}

type wsConn struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub over the given store and notifier
func NewHub(store *state.Store, notifier *notify.Notifier) *Hub {
	return &Hub{
		store:    store,
		notifier: notifier,
		upgrader: websocket.Upgrader{
			// The UI is served from this same process on loopback
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		pingInterval: 30 * time.Second,
		conns:        make(map[*wsConn]struct{}),
	}
}

// Run subscribes to store and notifier changes and broadcasts until ctx is
// cancelled
func (h *Hub) Run(ctx context.Context) {
	events, unsubscribe := h.store.Subscribe()
	defer unsubscribe()

	h.notifier.SetOnChange(h.Broadcast)

	for {
		select {
		case <-ctx.Done():
			return
		case <-events:
			h.Broadcast()
		}
	}
}

// Broadcast pushes the current snapshot to every connection
func (h *Hub) Broadcast() {
	frame, err := json.Marshal(update{
		Type:          "update",
		State:         h.store.Snapshot(),
		Notifications: h.notifier.Active(),
	})
	if err != nil {
		log.Printf("failed to marshal state frame: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- frame:
		default:
		}
	}
}

// HandleWS upgrades the request and serves push frames until the peer goes
// away
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &wsConn{conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		conn.Close()
	}()

	// Seed the view immediately, then stream changes
	go h.Broadcast()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case frame := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
