// Package messaging implements the in-memory event bus that fans domain
// events out to subscribed handlers. Suitable for single-instance
// deployments and tests.
package messaging

import (
	"context"
	"sync"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// InMemoryEventBus dispatches events synchronously to handlers registered
// per event type. Handler failures are logged and never propagate to the
// publishing command.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[shared.EventType][]shared.EventHandler
	log      *logger.Logger
}

// NewInMemoryEventBus creates a new bus.
func NewInMemoryEventBus(log *logger.Logger) *InMemoryEventBus {
	if log == nil {
		log = logger.NewNop()
	}
	return &InMemoryEventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		log:      log,
	}
}

// Subscribe registers a handler for an event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish dispatches the event to all handlers for its type.
func (b *InMemoryEventBus) Publish(ctx context.Context, event shared.Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			b.log.Warn("event handler failed",
				"event_type", string(event.EventType()),
				"aggregate_id", event.AggregateID(),
				"error", err,
			)
		}
	}
}
