package shared

import "context"

// EventHandler reacts to published events. The recent entries service is
// one: it drops its cached page when an entry is saved.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types to deliver; empty means every type.
	EventTypes() []string
}

// EventPublisher is what the form engines depend on. Publish returns once
// every subscribed handler has run.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers handlers. Subscribe with no types falls back to
// the handler's own EventTypes.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the process-wide notification channel wired in main.
// Events published while stopped are dropped.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
