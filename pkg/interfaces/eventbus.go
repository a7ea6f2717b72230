package interfaces

import (
	"context"
)

// Event is something the sync core tells the rest of the system about:
// a title was created, a job finished, metadata was applied.
type Event interface {
	// EventType returns the event's type string, e.g. "catalog.title.created".
	EventType() string

	// Timestamp returns when the event occurred, in Unix seconds.
	Timestamp() int64

	// AggregateID returns the ID of the record the event is about.
	AggregateID() string
}

// EventHandler consumes events of one type.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error

	// EventType returns the type of events this handler processes.
	EventType() string
}

// EventBus fans events out to subscribed handlers.
type EventBus interface {
	// Publish delivers the event to every handler before returning.
	Publish(ctx context.Context, event Event) error

	// PublishAsync delivers the event in the background. Stop waits for
	// in-flight deliveries.
	PublishAsync(ctx context.Context, event Event)

	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) error

	Start(ctx context.Context) error
	Stop() error
}
