package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	ChannelID() int32
	Send(data []byte) error
	Close() error
}

// ChannelAdmin is the admin-wide broadcast channel; every ledger event the
// services publish (charges, payments, credit runs, invoices, credit notes,
// billing batches, payroll) goes to it.
const ChannelAdmin int32 = 0

// Hub fans ledger events out to admin-console clients, grouped by channel.
// A channel is either a representative ID (account activity for that
// representative) or ChannelAdmin. Safe for concurrent use.
type Hub struct {
	channels map[int32]map[string]ClientInterface
	mu       sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		channels: make(map[int32]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its channel
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channelID := client.ChannelID()
	clientID := client.ID()

	if h.channels[channelID] == nil {
		h.channels[channelID] = make(map[string]ClientInterface)
	}
	h.channels[channelID][clientID] = client

	log.Debug().
		Int32("channel_id", channelID).
		Str("client_id", clientID).
		Msg("websocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channelID := client.ChannelID()
	clientID := client.ID()

	if clients, ok := h.channels[channelID]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)
			if len(clients) == 0 {
				delete(h.channels, channelID)
			}
			log.Debug().
				Int32("channel_id", channelID).
				Str("client_id", clientID).
				Msg("websocket client unregistered")
		}
	}
}

// Broadcast sends an event to all clients registered on a specific channel
func (h *Hub) Broadcast(channelID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("channel_id", channelID).
			Str("event_type", event.Type).
			Msg("failed to serialize ledger event")
		return
	}

	h.mu.RLock()
	clients, ok := h.channels[channelID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	clientsCopy := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	h.mu.RUnlock()

	for _, client := range clientsCopy {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().
					Err(err).
					Int32("channel_id", channelID).
					Str("client_id", c.ID()).
					Msg("failed to send to websocket client")
			}
		}(client)
	}

	log.Debug().
		Int32("channel_id", channelID).
		Str("event_type", event.Type).
		Int("client_count", len(clientsCopy)).
		Msg("broadcast ledger event")
}

// ClientCount returns the number of clients connected to a channel
func (h *Hub) ClientCount(channelID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.channels[channelID]; ok {
		return len(clients)
	}
	return 0
}

// TotalClientCount returns the total number of connected clients across all channels
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.channels {
		total += len(clients)
	}
	return total
}
