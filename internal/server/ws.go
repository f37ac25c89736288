package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"verdant/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is the host platform's concern; the stream only
	// carries events that are also readable via GET /api/events.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans recorded lifecycle events out to websocket subscribers. A slow
// subscriber is dropped rather than allowed to stall the garden.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan telemetry.Event
	logger  *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]chan telemetry.Event),
		logger:  logger,
	}
}

// Publish implements telemetry.Notifier.
func (h *Hub) Publish(ev telemetry.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			// Buffer full: disconnect the laggard.
			delete(h.clients, conn)
			close(ch)
		}
	}
}

func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ch := make(chan telemetry.Event, 64)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	go h.writePump(conn, ch)
	h.readPump(conn)
}

func (h *Hub) writePump(conn *websocket.Conn, ch chan telemetry.Event) {
	defer conn.Close()

	for ev := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(ev); err != nil {
			h.drop(conn)
			return
		}
	}
}

// readPump discards inbound frames; its job is noticing the close.
func (h *Hub) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(conn)
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	_ = conn.Close()
}
