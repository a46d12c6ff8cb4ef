package notify

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"

	"officehub/internal/models"
)

// Client is one connected websocket listener.
type Client struct {
	Conn *websocket.Conn
	Mu   sync.Mutex
}

// Hub fans lifecycle notifications out to connected websocket clients.
// Delivery is best effort: a full broadcast queue drops the event rather
// than blocking the mutation that produced it.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Publish queues a notification event for broadcast. Never blocks.
func (h *Hub) Publish(n models.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- data:
	default:
	}
}

// Run manages register, unregister and broadcast. Start it once in a
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case message := <-h.Broadcast:
			for client := range h.Clients {
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, message)
				client.Mu.Unlock()
				if err != nil {
					delete(h.Clients, client)
					client.Conn.Close()
				}
			}
		}
	}
}
