package websocket

import (
	"encoding/json"
	"time"
)

// EventType is what happened to an entity
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType is the kind of record an event concerns
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeReceipt     EntityType = "receipt"
	EntityTypeProfile     EntityType = "profile"
)

// Event is the message pushed to clients and forwarded to the broker.
// Type joins entity and event type, e.g. "transaction.created".
type Event struct {
	Type      string      `json:"type"`
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewEvent(eventType EventType, entity EntityType, payload interface{}) Event {
	return Event{
		Type:      string(entity) + "." + string(eventType),
		Entity:    entity,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON encodes the event as sent over the socket
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

func ReceiptUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeReceipt, payload)
}

func ReceiptDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeReceipt, payload)
}

// ProfileUpdated tells clients to refetch dashboards, since a new month start
// day or timezone moves every window.
func ProfileUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeProfile, payload)
}
