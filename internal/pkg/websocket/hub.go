package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/tuitiondesk/internal/app/models"
)

// Event is the frame pushed to every connected client
type Event struct {
	Type         string               `json:"type"`
	Announcement *models.Announcement `json:"announcement"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts announcement events
// to them. Only the Run goroutine mutates the client set.
type Hub struct {
	clients map[*Client]bool

	// Outbound frames, already encoded
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for ClientCount
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info().
				Stringer("addr", client.conn.RemoteAddr()).
				Msg("Client registered")

		case client := <-h.unregister:
			h.removeClient(client)

		case data := <-h.broadcast:
			h.broadcastFrame(data)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info().Msg("Announcement hub stopped")
			return
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.logger.Info().
			Stringer("addr", client.conn.RemoteAddr()).
			Msg("Client unregistered")
	}
}

func (h *Hub) broadcastFrame(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop it rather than stall the feed
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn().Stringer("addr", client.conn.RemoteAddr()).Msg("Dropped slow client")
		}
	}

	h.logger.Debug().Int("clientCount", len(h.clients)).Msg("Event broadcasted")
}

// PublishAnnouncement queues an event for every connected client. It never
// blocks the caller; events are dropped when the queue is full.
func (h *Hub) PublishAnnouncement(eventType string, a *models.Announcement) {
	data, err := json.Marshal(Event{Type: eventType, Announcement: a, Timestamp: time.Now()})
	if err != nil {
		h.logger.Error().Err(err).Str("event", eventType).Msg("Failed to marshal event")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().Str("event", eventType).Msg("Broadcast queue full, event dropped")
	}
}

// join registers client unless the hub has stopped
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client unless the hub has stopped
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
