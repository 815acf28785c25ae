// Package livereload pushes reload notifications to connected browsers over
// a WebSocket. The dev server broadcasts after each content reload and the
// page script reloads when notified.
package livereload

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// writeWait bounds each write to a client.
	writeWait = 10 * time.Second

	// pongWait is how long a client may stay silent before it is dropped.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait so pings keep clients alive.
	pingPeriod = (pongWait * 9) / 10

	// maxClientMessage caps the size of inbound frames. Clients only ever
	// answer pings, so anything larger is a protocol violation.
	maxClientMessage = 512

	// sendBuffer is the per-client queue of pending events.
	sendBuffer = 8
)

// Event is the message pushed to connected clients.
type Event struct {
	Event  string `json:"event"`
	Reason string `json:"reason,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan Event
}

// Hub tracks connected browsers and broadcasts reload events to them.
type Hub struct {
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The endpoint only exists in the local dev loop.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// ServeWS upgrades the request and registers the browser as a client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("livereload upgrade failed")
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Event, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[cl.id] = cl
	h.mu.Unlock()

	h.logger.WithField("client", cl.id).Debug("livereload client connected")

	go h.writePump(cl)
	go h.readPump(cl)
}

// Broadcast queues a reload event for every connected client. It never
// blocks; a client that cannot keep up reconnects after the reload anyway.
func (h *Hub) Broadcast(reason string) {
	event := Event{Event: "reload", Reason: reason}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cl := range h.clients {
		select {
		case cl.send <- event:
		default:
		}
	}
}

// ClientCount reports how many browsers are connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, cl := range clients {
		close(cl.send)
	}
}

// writePump owns all writes to the connection. gorilla/websocket allows a
// single concurrent writer, so events and pings are serialized here.
func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case event, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = cl.conn.WriteMessage(websocket.CloseMessage, msg)
				return
			}
			if err := cl.conn.WriteJSON(event); err != nil {
				h.drop(cl)
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(cl)
				return
			}
		}
	}
}

// readPump discards inbound frames and keeps the read deadline fresh while
// pongs arrive.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.drop(cl)
		_ = cl.conn.Close()
		h.logger.WithField("client", cl.id).Debug("livereload client disconnected")
	}()

	cl.conn.SetReadLimit(maxClientMessage)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl.id)
	h.mu.Unlock()
}
