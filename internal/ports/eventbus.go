// Package ports define the EventBus interface for event-driven communication.
// Track stores, the seeder and the player publish on it; observers subscribe.
package ports

import (
	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

// EventBus carries domain events from publishers to subscribers.
//
// Publishers never know who listens: the track stores announce writes, the
// seeder announces completion and the player announces state changes, while
// the catalog service, the session bridge and tests subscribe.
//
// Thread-safety: Implementations must be thread-safe.
//
//	id := bus.Subscribe(domain.EventCatalogChanged, func(e domain.Event) {
//	    refresh(e.(domain.CatalogChangedEvent).Written)
//	})
//	defer bus.Unsubscribe(id)
type EventBus interface {
	// Publish hands event to every matching subscriber.
	// Handlers run on the publisher's goroutine, so they must return quickly
	// and must not block on the publisher.
	Publish(event domain.Event)

	// Subscribe registers handler for one event type. Registering the same
	// handler twice yields two subscriptions.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a subscription. Unknown IDs are ignored.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers handler for every event type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether an event of this type would reach anyone.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops all subscriptions; later publishes are ignored.
	Close() error
}

// EventFilter decides whether a filtered subscription sees an event.
type EventFilter func(event domain.Event) bool

// FilteringEventBus is an EventBus that also supports filtered subscriptions.
type FilteringEventBus interface {
	EventBus

	// SubscribeFiltered registers handler for events of eventType that pass filter.
	//
	//	bus.SubscribeFiltered(domain.EventPositionChanged, func(e domain.Event) bool {
	//	    return e.(domain.PositionChangedEvent).Position > time.Minute
	//	}, handlePosition)
	SubscribeFiltered(eventType domain.EventType, filter EventFilter, handler domain.EventHandler) domain.SubscriptionID
}
