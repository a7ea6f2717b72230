// Package events provides the in-process event bus the sync core publishes
// its domain events on.
package events

import (
	"context"
	"sync"

	"github.com/JulianiusM/InventoryManagement-sub000/pkg/interfaces"
)

// InMemoryEventBus fans events out to handlers inside the process. A handler
// error is logged and does not stop delivery to the remaining handlers.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]interfaces.EventHandler
	logger   interfaces.Logger
	inflight sync.WaitGroup
}

// NewInMemoryEventBus creates an event bus with no subscriptions.
func NewInMemoryEventBus(logger interfaces.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]interfaces.EventHandler),
		logger:   logger,
	}
}

// Publish delivers the event to every subscribed handler before returning.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interfaces.Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			b.logger.Error("Event handler failed",
				interfaces.String("event_type", event.EventType()),
				interfaces.Error(err))
		}
	}
	return nil
}

// PublishAsync delivers the event in the background. Stop waits for all
// asynchronous deliveries to finish.
func (b *InMemoryEventBus) PublishAsync(ctx context.Context, event interfaces.Event) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		_ = b.Publish(ctx, event)
	}()
}

// Subscribe registers a handler for an event type.
func (b *InMemoryEventBus) Subscribe(eventType string, handler interfaces.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Start is a no-op for the in-memory bus; it exists so callers can treat all
// bus implementations uniformly.
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	return nil
}

// Stop waits for in-flight asynchronous deliveries.
func (b *InMemoryEventBus) Stop() error {
	b.inflight.Wait()
	return nil
}

var _ interfaces.EventBus = (*InMemoryEventBus)(nil)
