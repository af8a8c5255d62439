package ws

import (
	"encoding/json"
	"sync"

	"employercheck/internal/logging"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Client message types
const (
	MsgSetAnswer MessageType = "set_answer"
	MsgMove      MessageType = "move"
	MsgSubmit    MessageType = "submit"
)

// Server message types
const (
	MsgState      MessageType = "state"
	MsgAssessment MessageType = "assessment"
	MsgError      MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub tracks the live connection of each session. A session has at most one
// connection; registering a new one closes the old.
type Hub struct {
	conns map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	stop       chan struct{}
	stopOnce   sync.Once
}

// Connection represents one session's WebSocket connection
type Connection struct {
	SessionID string
	Send      chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(sessionID string) *Connection {
	return &Connection{
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		done:      make(chan struct{}),
	}
}

// Done is closed once the connection is superseded or unregistered
func (c *Connection) Done() <-chan struct{} { return c.done }

func (c *Connection) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		stop:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	log := logging.New("ws")
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok {
				existing.close()
				log.Info("connection superseded", "session_id", conn.SessionID)
			}
			h.conns[conn.SessionID] = conn
			h.mu.Unlock()
			log.Info("session connected", "session_id", conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.SessionID]; ok && existing == conn {
				delete(h.conns, conn.SessionID)
				log.Info("session disconnected", "session_id", conn.SessionID)
			}
			h.mu.Unlock()
			conn.close()

		case <-h.stop:
			h.mu.Lock()
			for id, conn := range h.conns {
				conn.close()
				delete(h.conns, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection, superseding any earlier one for the session
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.stop:
		conn.close()
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.stop:
		conn.close()
	}
}

// Connected reports whether conn is the live connection for its session
func (h *Hub) Connected(conn *Connection) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[conn.SessionID] == conn
}

// Count returns the number of live sessions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every session and stops the hub
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
}
