package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/shared/domain"
	"github.com/google/uuid"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// Envelope is the wire format of every event on the bus.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      Metadata        `json:"metadata,omitempty"`
}

// Metadata is the tracing part of an Envelope.
type Metadata struct {
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

// Encode wraps a domain event and its payload into an Envelope.
func Encode(event domain.DomainEvent, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event.RoutingKey(), err)
	}
	env := Envelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		Payload:       body,
		Metadata:      Metadata{CorrelationID: event.Metadata().CorrelationID},
	}
	if uid := event.Metadata().UserID; uid != uuid.Nil {
		env.Metadata.UserID = &uid
	}
	return json.Marshal(env)
}

// PublishEvent encodes and publishes a domain event.
func PublishEvent(ctx context.Context, publisher Publisher, event domain.DomainEvent, payload any) error {
	data, err := Encode(event, payload)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, event.RoutingKey(), data)
}
