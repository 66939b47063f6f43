// Package eventbus provides implementations of the EventBus interface.
// This package contains the synchronous event bus implementation.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// ErrBusClosed is returned by Close when the bus was already closed.
var ErrBusClosed = errors.New("event bus already closed")

// SyncEventBus is a synchronous implementation of the EventBus interface.
// Events are delivered on the publisher's goroutine, in subscription order.
//
// Thread-safety: publish, subscribe and unsubscribe may be called concurrently.
// A handler may itself publish or unsubscribe; the subscriber list is copied
// before delivery so no lock is held while handlers run.
type SyncEventBus struct {
	logger *slog.Logger

	// subscribers map event types to their subscriptions
	subscribers map[domain.EventType][]subscription

	// wildcard receives every event
	wildcard []subscription

	mu        sync.RWMutex
	idCounter atomic.Uint64
	closed    bool
}

type subscription struct {
	id      domain.SubscriptionID
	filter  ports.EventFilter
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus() *SyncEventBus {
	return &SyncEventBus{
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// SetLogger sets the logger for this event bus.
// This should be called after construction before using the event bus.
func (bus *SyncEventBus) SetLogger(logger *slog.Logger) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.logger = logger
}

// Publish delivers an event to its type subscribers, then to wildcard subscribers.
// Publishing on a closed bus is a no-op. A panicking handler is recovered and
// logged; the remaining handlers still run.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]subscription, 0, len(bus.subscribers[event.Type()])+len(bus.wildcard))
	targets = append(targets, bus.subscribers[event.Type()]...)
	targets = append(targets, bus.wildcard...)
	logger := bus.logger
	bus.mu.RUnlock()

	if logger != nil {
		logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.Int("subscribers", len(targets)))
	}

	for _, sub := range targets {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		bus.deliver(logger, sub, event)
	}
}

func (bus *SyncEventBus) deliver(logger *slog.Logger, sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && logger != nil {
			logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("subscription", string(sub.id)),
				slog.String("event_type", string(event.Type())))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of the specified type.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(eventType, "sub", nil, handler)
}

// SubscribeFiltered registers a handler that only sees events passing filter.
func (bus *SyncEventBus) SubscribeFiltered(eventType domain.EventType, filter ports.EventFilter, handler domain.EventHandler) domain.SubscriptionID {
	if filter == nil {
		panic("event filter cannot be nil")
	}
	return bus.add(eventType, "sub-filtered", filter, handler)
}

// SubscribeAll registers a handler that receives all events regardless of type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add("", "sub-all", nil, handler)
}

// add registers a subscription; an empty eventType means wildcard.
func (bus *SyncEventBus) add(eventType domain.EventType, prefix string, filter ports.EventFilter, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	sub := subscription{
		id:      domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.idCounter.Add(1))),
		filter:  filter,
		handler: handler,
	}

	if eventType == "" {
		bus.wildcard = append(bus.wildcard, sub)
	} else {
		bus.subscribers[eventType] = append(bus.subscribers[eventType], sub)
	}
	return sub.id
}

// Unsubscribe removes a previously registered handler.
// Unknown or already removed IDs are ignored. Remaining subscribers keep their order.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.subscribers {
		if idx := indexOf(subs, id); idx >= 0 {
			bus.subscribers[eventType] = remove(subs, idx)
			return
		}
	}

	if idx := indexOf(bus.wildcard, id); idx >= 0 {
		bus.wildcard = remove(bus.wildcard, idx)
	}
}

func indexOf(subs []subscription, id domain.SubscriptionID) int {
	for i, sub := range subs {
		if sub.id == id {
			return i
		}
	}
	return -1
}

// remove returns a fresh slice so copies taken by Publish stay intact.
func remove(subs []subscription, idx int) []subscription {
	out := make([]subscription, 0, len(subs)-1)
	out = append(out, subs[:idx]...)
	return append(out, subs[idx+1:]...)
}

// HasSubscribers returns true if any subscription would receive an event of this type.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return len(bus.subscribers[eventType]) > 0 || len(bus.wildcard) > 0
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.subscribers {
		count += len(subs)
	}
	return count
}

// Close drops every subscription. Later publishes are ignored.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return ErrBusClosed
	}

	bus.closed = true
	bus.subscribers = make(map[domain.EventType][]subscription)
	bus.wildcard = nil

	return nil
}

var _ ports.FilteringEventBus = (*SyncEventBus)(nil)
