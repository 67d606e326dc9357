// Package live streams deck query results to websocket clients.
package live

import (
	"net/http"
	"sync"
	"time"
	"vibes/internal/models"
	"vibes/internal/providers"
	"vibes/internal/services"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 512

	EventDecks = "decks:updated"
)

// Event is the envelope of every message written to a client.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	sub  *services.Subscription
	done chan struct{}
	once sync.Once
}

// Hub tracks connected clients so they can be closed on shutdown.
type Hub struct {
	logger   providers.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	stopped bool
}

func NewHub(logger providers.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The upstream proxy terminates auth and enforces origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Serve upgrades the request and streams sub until either side goes away.
// The subscription is closed when Serve's client ends.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sub *services.Subscription) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		sub.Close()
		http.Error(w, "Live updates are not running", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Close()
		h.logger.Warnf(providers.TypeGet, "WebSocket upgrade error: %s", err)
		return
	}

	c := &client{hub: h, conn: conn, sub: sub, done: make(chan struct{})}
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		sub.Close()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop disconnects every client and refuses new ones. Safe to call twice.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.logger.Infof(providers.TypeApp, "Live hub stopped, %d clients disconnected", len(clients))
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.sub.Close()
		c.hub.mu.Lock()
		delete(c.hub.clients, c)
		c.hub.mu.Unlock()
	})
}

func (c *client) readPump() {
	defer func() {
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debugf(providers.TypeGet, "WebSocket read error: %s", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case decks := <-c.sub.C:
			if err := c.write(decks); err != nil {
				c.hub.logger.Debugf(providers.TypeGet, "WebSocket write error: %s", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

func (c *client) write(decks []*models.Deck) error {
	message, err := json.Marshal(Event{Type: EventDecks, Data: decks})
	if err != nil {
		return err
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, message)
}
