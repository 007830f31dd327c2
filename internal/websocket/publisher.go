package websocket

import "github.com/google/uuid"

// EventPublisher defines the interface for publishing events to a user's listeners
type EventPublisher interface {
	// Publish sends an event to everything listening on behalf of the user
	Publish(userID uuid.UUID, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user's connections
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []EventPublisher

// Publish forwards the event to every publisher
func (m MultiPublisher) Publish(userID uuid.UUID, event Event) {
	for _, p := range m {
		p.Publish(userID, event)
	}
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}
