package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/queuebeat/backend/internal/eventbus"
	"github.com/queuebeat/backend/internal/models"
)

// Hub maintains the set of active dashboard clients per channel and fans
// the channel's event stream out to them
type Hub struct {
	// Registered clients grouped by channel
	clients map[uuid.UUID]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Event bus the hub subscribes to per channel
	bus *eventbus.Bus

	// One bus subscription per channel with at least one client
	streams map[uuid.UUID]*eventbus.Subscription

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(bus *eventbus.Bus) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		bus:        bus,
		streams:    make(map[uuid.UUID]*eventbus.Subscription),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.channelID] == nil {
				h.clients[client.channelID] = make(map[*Client]bool)
			}
			h.clients[client.channelID][client] = true

			// First client on this channel opens the bus stream
			if _, ok := h.streams[client.channelID]; !ok {
				sub := h.bus.Subscribe(client.channelID)
				h.streams[client.channelID] = sub
				go h.pumpChannel(client.channelID, sub)
			}
			h.mu.Unlock()

			log.Printf("Dashboard client connected to channel %s", client.channelID)

		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.channelID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
				}
				if len(set) == 0 {
					delete(h.clients, client.channelID)
					if sub, ok := h.streams[client.channelID]; ok {
						delete(h.streams, client.channelID)
						sub.Close()
					}
				}
			}
			h.mu.Unlock()

			log.Printf("Dashboard client disconnected from channel %s", client.channelID)
		}
	}
}

// pumpChannel forwards the channel's event stream to all its clients.
// Exits when the bus subscription is closed.
func (h *Hub) pumpChannel(channelID uuid.UUID, sub *eventbus.Subscription) {
	for ev := range sub.C() {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		h.broadcastToChannel(channelID, data)
	}
}

func (h *Hub) broadcastToChannel(channelID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[channelID] {
		select {
		case client.send <- message:
		default:
			// Client's send channel is full, skip
		}
	}
}

// SendToChannel marshals and delivers a message to every client watching
// the channel. Used for snapshots and service notices outside the event
// stream.
func (h *Hub) SendToChannel(channelID uuid.UUID, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.broadcastToChannel(channelID, data)
	return nil
}

// ClientCount returns the number of connected clients for a channel
func (h *Hub) ClientCount(channelID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[channelID])
}

// sendSnapshot delivers the initial queue state to a single client
func sendSnapshot(client *Client, snapshot *models.QueueSnapshot) {
	data, err := json.Marshal(map[string]interface{}{
		"type":     "queue.snapshot",
		"snapshot": snapshot,
	})
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
	}
}
