package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Handler reacts to one decoded event.
type Handler func(ctx context.Context, env *Envelope) error

// InProcessEventBus delivers events synchronously to handlers registered in
// the same process. It backs local mode, where no broker runs.
type InProcessEventBus struct {
	handlers map[string][]Handler
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewInProcessEventBus creates an empty bus.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{handlers: make(map[string][]Handler), logger: logger}
}

// Subscribe registers a handler for a routing key. "#" receives every event.
func (b *InProcessEventBus) Subscribe(routingKey string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], h)
}

// Publish decodes the envelope and runs the matching handlers. Handler
// failures are logged and never returned to the publisher.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	env := &Envelope{}
	if err := json.Unmarshal(payload, env); err != nil {
		b.logger.ErrorContext(ctx, "failed to decode event", "routing_key", routingKey, "error", err)
		return nil
	}
	if env.RoutingKey == "" {
		env.RoutingKey = routingKey
	}

	b.mu.RLock()
	handlers := append(append([]Handler(nil), b.handlers[routingKey]...), b.handlers["#"]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, env); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				"routing_key", routingKey,
				"event_id", env.EventID,
				"error", err,
			)
		}
	}
	return nil
}

// Close is a no-op.
func (b *InProcessEventBus) Close() error {
	return nil
}
