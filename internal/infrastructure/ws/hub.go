// Package ws implements the websocket hub that pushes platform events
// to connected clients.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tradewiser/backend/internal/infrastructure/config"
)

// Message is a single broadcast frame. Type identifies the event
// (process.stage_completed, receipt.issued, ...) and Payload carries
// the event data.
type Message struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub tracks connected clients and fans broadcast messages out to them.
// Messages addressed to a user are only delivered to that user's
// connections; broadcast messages reach everyone.
type Hub struct {
	cfg    config.WSConfig
	logger *zap.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound

	mu      sync.RWMutex
	clients map[*Client]struct{}

	running atomic.Bool
	done    chan struct{}
	once    sync.Once
}

type outbound struct {
	userID uuid.UUID // uuid.Nil means broadcast to all
	data   []byte
}

// NewHub creates a hub with the given configuration
func NewHub(cfg config.WSConfig, logger *zap.Logger) *Hub {
	return &Hub{
		cfg:        cfg,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 256),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Run processes register, unregister and broadcast requests until the
// context is cancelled or Stop is called. Call it in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer h.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-h.done:
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("websocket client connected",
				zap.String("user_id", client.userID.String()),
				zap.Int("clients", h.ClientCount()),
			)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop shuts the hub down and disconnects all clients
func (h *Hub) Stop() {
	h.once.Do(func() {
		close(h.done)
	})
}

// Broadcast sends a message to every connected client
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	h.enqueue(uuid.Nil, msgType, payload)
}

// Notify sends a message to all connections of a single user
func (h *Hub) Notify(userID uuid.UUID, msgType string, payload interface{}) {
	h.enqueue(userID, msgType, payload)
}

// Running reports whether the hub loop is accepting registrations.
// It is false before Run starts and after the hub shuts down.
func (h *Hub) Running() bool {
	return h.running.Load()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) enqueue(userID uuid.UUID, msgType string, payload interface{}) {
	data, err := json.Marshal(Message{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Error("failed to marshal websocket message",
			zap.String("type", msgType),
			zap.Error(err),
		)
		return
	}

	select {
	case h.broadcast <- outbound{userID: userID, data: data}:
	case <-h.done:
	}
}

func (h *Hub) deliver(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if msg.userID != uuid.Nil && client.userID != msg.userID {
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			// Slow consumer, drop the connection
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}
