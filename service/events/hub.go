package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mediremind/mediremind-server/cmd/models"
)

type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

// SessionEvent is the frame broadcast to every subscriber whenever the
// auth state of any session changes, so open screens reflect login and
// logout without a manual refresh.
type SessionEvent struct {
	Event  EventType   `json:"event"`
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role,omitempty"`
}

type ClientConnection struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// Hub is the single process-wide subscription channel for session
// events. All connected clients receive every event.
type Hub struct {
	Register   chan *ClientConnection
	Unregister chan *ClientConnection
	Broadcast  chan []byte

	clients map[*ClientConnection]bool
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *ClientConnection),
		Unregister: make(chan *ClientConnection),
		Broadcast:  make(chan []byte, 16),
		clients:    make(map[*ClientConnection]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish broadcasts a session event to all subscribers. Never blocks
// the caller: if the hub's buffer is full the event is dropped.
func (h *Hub) Publish(event SessionEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("error marshaling session event: %v", err)
		return
	}

	select {
	case h.Broadcast <- message:
	default:
		log.Println("session event dropped: broadcast buffer full")
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *ClientConnection) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains the connection so close frames and pongs are
// processed; subscribers never send application data.
func (c *ClientConnection) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("session events read error: %v", err)
			}
			break
		}
	}
}
