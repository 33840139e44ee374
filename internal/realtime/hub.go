// Package realtime pushes events to users over websocket connections.
package realtime

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"arena/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Event is the envelope written to clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is one websocket session of a user
type Client struct {
	UserID    uint
	SessionID string
	conn      *websocket.Conn
	wslock    sync.Mutex
}

func (c *Client) write(v interface{}) error {
	// gorilla connections allow one concurrent writer
	c.wslock.Lock()
	defer c.wslock.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks the open sessions of every user
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: map[uint]map[string]*Client{}}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = map[string]*Client{}
	}
	h.clients[c.UserID][c.SessionID] = c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions := h.clients[c.UserID]
	delete(sessions, c.SessionID)
	if len(sessions) == 0 {
		delete(h.clients, c.UserID)
	}
	_ = c.conn.Close()
}

// Connections returns the number of open sessions of a user
func (h *Hub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish sends an event to every session of the user. Failed sessions are
// dropped.
func (h *Hub) Publish(userID uint, eventType string, payload interface{}) {
	h.mu.RLock()
	sessions := make([]*Client, 0, len(h.clients[userID]))
	for _, c := range h.clients[userID] {
		sessions = append(sessions, c)
	}
	h.mu.RUnlock()

	event := Event{Type: eventType, Payload: payload}
	for _, c := range sessions {
		if err := c.write(event); err != nil {
			logger.Debugf("dropping websocket session %s of user %d: %v", c.SessionID, userID, err)
			h.unregister(c)
		}
	}
}

// Serve upgrades the request and blocks until the client disconnects.
// onConnect runs after registration, e.g. to send the initial state.
func (h *Hub) Serve(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uint, onConnect func(*Client)) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{UserID: userID, SessionID: uuid.NewString(), conn: conn}
	h.register(c)
	defer h.unregister(c)

	if onConnect != nil {
		onConnect(c)
	}

	// clients only send pings; reading detects disconnects
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Send writes an event to a single session
func (c *Client) Send(eventType string, payload interface{}) error {
	return c.write(Event{Type: eventType, Payload: payload})
}
