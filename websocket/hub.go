package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event types pushed to connected dashboards
const (
	EventHoursUpdate  = "hours_update"
	EventStatusUpdate = "status_update"
)

// Notification is a message sent over WebSocket to a dashboard client
type Notification struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected dashboard
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
	Admin  bool
}

// Hub maintains the set of active clients and pushes emitter updates to them
type Hub struct {
	clients    map[primitive.ObjectID][]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			conns := h.clients[client.UserID]
			for i, c := range conns {
				if c == client {
					h.clients[client.UserID] = append(conns[:i], conns[i+1:]...)
					break
				}
			}
			if len(h.clients[client.UserID]) == 0 {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a notification to every connection of a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, notification Notification) error {
	h.mu.RLock()
	conns := h.clients[userID]
	h.mu.RUnlock()

	if len(conns) == 0 {
		return fmt.Errorf("user not connected")
	}

	for _, client := range conns {
		client.Conn.WriteJSON(notification)
	}
	return nil
}

// BroadcastToAdmins sends a notification to every connected admin dashboard
func (h *Hub) BroadcastToAdmins(notification Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conns := range h.clients {
		for _, client := range conns {
			if client.Admin {
				client.Conn.WriteJSON(notification)
			}
		}
	}
}

// NotifyEmitterUpdate pushes an emitter change to its recruiter's dashboard
// and to all admin dashboards.
func (h *Hub) NotifyEmitterUpdate(recruiterID primitive.ObjectID, eventType, message string, data interface{}) {
	notification := Notification{
		Type:    eventType,
		Message: message,
		Data:    data,
	}

	// The recruiter may simply not be connected
	_ = h.SendToUser(recruiterID, notification)
	h.BroadcastToAdmins(notification)
}
