// Package hub pushes live dashboard events to connected operator browsers.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bitemebuddy/admin-dashboard/utils"
)

// Event types
const (
	EventOrderStatus     = "order_status_updated"
	EventCatalogChanged  = "catalog_changed"
	EventReviewModerated = "review_moderated"
	EventUserToggled     = "user_toggled"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client owns the outgoing queue of one socket. Only its writer goroutine
// touches the connection for writes.
type client struct {
	admin string
	send  chan []byte
}

// Hub holds the open dashboard sockets, keyed to the admin username.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, admin string) {
	c := &client{admin: admin, send: make(chan []byte, sendBuffer)}
	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()
	go h.writeLoop(conn, c)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn)
}

// drop must be called with the mutex held.
func (h *Hub) drop(conn *websocket.Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)
	conn.Close()
}

func (h *Hub) writeLoop(conn *websocket.Conn, c *client) {
	for payload := range c.send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Warnf("hub: dropping client %s: %v", c.admin, err)
			h.Unregister(conn)
			return
		}
	}
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast queues event for every client and returns how many accepted it.
// A client whose queue is full is dropped; the caller never waits on a socket.
func (h *Hub) Broadcast(event string, data interface{}) int {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Errorf("hub: marshal %s: %v", event, err)
		return 0
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for conn, c := range h.clients {
		select {
		case c.send <- payload:
			sent++
		default:
			utils.ErrorLogger.Warnf("hub: dropping slow client %s", c.admin)
			h.drop(conn)
		}
	}
	return sent
}
