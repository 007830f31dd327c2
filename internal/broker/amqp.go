package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// channel is the subset of *amqp091.Channel the publisher relies on
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Message is the body published for every domain event
type Message struct {
	UserID    uuid.UUID            `json:"userId"`
	Type      string               `json:"type"`
	Entity    websocket.EntityType `json:"entity"`
	Payload   interface{}          `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

// Publisher forwards domain events to a topic exchange so other services can
// react to them. The routing key is the event type, e.g. "transaction.created".
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	mu       sync.Mutex
}

// Ensure Publisher implements websocket.EventPublisher
var _ websocket.EventPublisher = (*Publisher)(nil)

// NewPublisher dials the broker and declares the exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish implements websocket.EventPublisher. Failures are logged, never returned,
// so a broker outage cannot fail the request that produced the event.
func (p *Publisher) Publish(userID uuid.UUID, event websocket.Event) {
	if err := p.publish(context.Background(), userID, event); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("event_type", event.Type).
			Msg("Failed to publish event to broker")
	}
}

func (p *Publisher) publish(ctx context.Context, userID uuid.UUID, event websocket.Event) error {
	body, err := json.Marshal(Message{
		UserID:    userID,
		Type:      event.Type,
		Entity:    event.Entity,
		Payload:   event.Payload,
		Timestamp: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// A channel must not be used by several goroutines at once
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.Timestamp,
			MessageId:    uuid.NewString(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.Debug().
		Str("exchange", p.exchange).
		Str("routing_key", event.Type).
		Msg("Published event")

	return nil
}

// Close closes the channel and the connection
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
