package websocket

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when sending to a client that has gone away
var ErrClientClosed = errors.New("client is closed")

// ClientInterface is the part of a connection the hub needs
type ClientInterface interface {
	ID() string
	UserID() uuid.UUID
	Send(data []byte) error
	Close() error
}

// Hub routes events to the open connections of each user. A user may hold
// several connections at once, one per tab or device.
type Hub struct {
	mu    sync.RWMutex
	users map[uuid.UUID]map[string]ClientInterface
}

func NewHub() *Hub {
	return &Hub{users: make(map[uuid.UUID]map[string]ClientInterface)}
}

// Register adds a client under its user
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	conns, ok := h.users[client.UserID()]
	if !ok {
		conns = make(map[string]ClientInterface)
		h.users[client.UserID()] = conns
	}
	conns[client.ID()] = client
	h.mu.Unlock()

	log.Debug().Str("user_id", client.UserID().String()).Str("client_id", client.ID()).Msg("WebSocket client registered")
}

// Unregister removes a client. Unknown clients are ignored.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(client)
}

// remove must be called with h.mu held
func (h *Hub) remove(client ClientInterface) bool {
	conns, ok := h.users[client.UserID()]
	if !ok {
		return false
	}
	if _, ok := conns[client.ID()]; !ok {
		return false
	}
	delete(conns, client.ID())
	if len(conns) == 0 {
		delete(h.users, client.UserID())
	}
	return true
}

// Broadcast delivers event to every connection of userID. Connections that
// cannot keep up are dropped so one stalled tab never holds back the rest.
func (h *Hub) Broadcast(userID uuid.UUID, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to encode event")
		return
	}

	h.mu.RLock()
	targets := make([]ClientInterface, 0, len(h.users[userID]))
	for _, client := range h.users[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	var stale []ClientInterface
	for _, client := range targets {
		if err := client.Send(data); err != nil {
			stale = append(stale, client)
			log.Warn().Err(err).Str("user_id", userID.String()).Str("client_id", client.ID()).Msg("Dropping WebSocket client")
		}
	}

	if len(stale) > 0 {
		h.mu.Lock()
		for _, client := range stale {
			h.remove(client)
		}
		h.mu.Unlock()
		for _, client := range stale {
			_ = client.Close()
		}
	}
}

// ClientCount returns how many connections userID holds
func (h *Hub) ClientCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// TotalClientCount returns the number of connections across all users
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.users {
		n += len(conns)
	}
	return n
}

// Shutdown closes every connection and empties the hub
func (h *Hub) Shutdown() {
	h.mu.Lock()
	users := h.users
	h.users = make(map[uuid.UUID]map[string]ClientInterface)
	h.mu.Unlock()

	for _, conns := range users {
		for _, client := range conns {
			_ = client.Close()
		}
	}
}
