// Package ws fans recorded violations out to connected admin dashboards.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many messages a slow dashboard may lag behind
	// before it is disconnected.
	sendBuffer = 32
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn Conn
	send chan []byte
}

// Hub never writes to a socket while holding its lock; every client has its
// own writer goroutine.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[Conn]*client)}
}

func (h *Hub) AddConnection(conn Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[conn] = c
	n := len(h.clients)
	h.mu.Unlock()

	go h.writePump(c)
	log.Info().Int("clients", n).Msg("ws: admin connected to live feed")
}

func (h *Hub) RemoveConnection(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	h.drop(c)
	log.Info().Int("clients", len(h.clients)).Msg("ws: admin disconnected from live feed")
}

// drop must be called with h.mu held.
func (h *Hub) drop(c *client) {
	delete(h.clients, c.conn)
	close(c.send)
	c.conn.Close()
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Msg("ws: write error, dropping client")
			h.RemoveConnection(c.conn)
			return
		}
	}
}

// Clients returns the number of connected dashboards.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues message for every client and returns without waiting for
// the writes.
func (h *Hub) Broadcast(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("type", message.Type).Msg("ws: marshal error")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Warn().Str("type", message.Type).Msg("ws: client too slow, dropping")
			h.drop(c)
		}
	}
}

// NotifyViolation publishes a freshly recorded violation.
func (h *Hub) NotifyViolation(v model.Violation) {
	h.Broadcast(Message{Type: "violation", Data: v})
}

// CloseAll disconnects every client; used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.drop(c)
	}
}
