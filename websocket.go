package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to a client.
	writeWait = 10 * time.Second

	// clientQueueSize is how many readings may wait for one client.
	clientQueueSize = 16
)

// upgrader converts HTTP requests to WebSocket connections.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one WebSocket connection and its pending readings.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// hub tracks connected WebSocket clients and delivers readings to them.
// It never writes to a connection itself: each client has its own writer.
type hub struct {
	// clients keeps track of connected WebSocket clients.
	clients map[*client]bool

	// clientsMu protects access to clients map and the closing of send channels.
	clientsMu sync.Mutex

	// broadcast delivers readings to WebSocket clients.
	broadcast chan []byte
}

func newHub() *hub {
	return &hub{
		clients:   make(map[*client]bool),
		broadcast: make(chan []byte, 100),
	}
}

// enqueue hands a reading to the broadcast loop without blocking.
// When the queue is full the reading is dropped; the slot still has it.
func (h *hub) enqueue(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		broadcastDropped.Inc()
		debugLog("Broadcast queue full, dropping %d bytes", len(payload))
	}
}

// run queues each broadcast message for every connected client.
// A client whose queue is full is too slow to keep up and is dropped.
func (h *hub) run() {
	for msg := range h.broadcast {
		h.clientsMu.Lock()
		for c := range h.clients {
			select {
			case c.send <- msg:
			default:
				debugLog("Client %s too slow, disconnecting", c.conn.RemoteAddr())
				h.unregisterLocked(c)
			}
		}
		h.clientsMu.Unlock()
	}
}

func (h *hub) register(c *client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	websocketClients.Inc()
	h.clientsMu.Unlock()
}

// remove unregisters c if it is still registered.
func (h *hub) remove(c *client) {
	h.clientsMu.Lock()
	h.unregisterLocked(c)
	h.clientsMu.Unlock()
}

func (h *hub) unregisterLocked(c *client) {
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
		websocketClients.Dec()
	}
}

// writePump writes queued readings to the connection until the hub
// closes the queue or a write fails or times out.
func (c *client) writePump(h *hub) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			debugLog("Error sending message to WebSocket %s: %v", c.conn.RemoteAddr(), err)
			h.remove(c)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// localPublisher broadcasts readings to this process's clients only.
type localPublisher struct {
	hub *hub
}

func (p localPublisher) Publish(_ context.Context, payload []byte) error {
	p.hub.enqueue(payload)
	return nil
}

// handleWebSocket handles WebSocket connections for real-time updates.
func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP connection to WebSocket.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		errorLog("Error upgrading to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, clientQueueSize)}

	// The current reading goes out first, ahead of any broadcast.
	if data, err := s.slot.Read(); err == nil {
		c.send <- data
	}
	s.hub.register(c)
	go c.writePump(s.hub)

	infoLog("WebSocket connection established: %s", conn.RemoteAddr())

	// Keep the connection open and read messages from client.
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			debugLog("WebSocket connection closed: %s", conn.RemoteAddr())
			s.hub.remove(c)
			return
		}
		// Client messages are only logged.
		debugLog("Received message from WebSocket client: %s", string(msg))
	}
}
