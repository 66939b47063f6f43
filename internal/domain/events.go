// Package domain defines events for the event-driven architecture.
// Events replace callbacks and enable loose coupling between components.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Catalog events
	EventCatalogSeeded  EventType = "catalog.seeded"
	EventCatalogChanged EventType = "catalog.changed"

	// Playback engine events. These four form the closed set an engine may emit.
	EventItemChanged      EventType = "engine.item_changed"
	EventPlayingChanged   EventType = "engine.playing_changed"
	EventBufferingChanged EventType = "engine.buffering_changed"
	EventPlaybackError    EventType = "engine.error"

	// Player view-model events
	EventPlayerStateChanged EventType = "player.state_changed"
	EventPositionChanged    EventType = "player.position_changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// CatalogSeededEvent is published once per process when seeding finishes.
type CatalogSeededEvent struct {
	baseEvent
	Inserted int  // Rows written by this seeding pass
	Skipped  bool // True if the store was already populated
}

// Type returns the event type.
func (e CatalogSeededEvent) Type() EventType {
	return EventCatalogSeeded
}

// NewCatalogSeededEvent creates a new CatalogSeededEvent.
func NewCatalogSeededEvent(inserted int, skipped bool) CatalogSeededEvent {
	return CatalogSeededEvent{
		baseEvent: newBaseEvent(),
		Inserted:  inserted,
		Skipped:   skipped,
	}
}

// CatalogChangedEvent is published by a track store after every successful write.
type CatalogChangedEvent struct {
	baseEvent
	Written int
}

// Type returns the event type.
func (e CatalogChangedEvent) Type() EventType {
	return EventCatalogChanged
}

// NewCatalogChangedEvent creates a new CatalogChangedEvent.
func NewCatalogChangedEvent(written int) CatalogChangedEvent {
	return CatalogChangedEvent{
		baseEvent: newBaseEvent(),
		Written:   written,
	}
}

// ItemChangedEvent is emitted by the engine when it moves to a different queue item.
type ItemChangedEvent struct {
	baseEvent
	Item        Track
	Index       int
	Duration    time.Duration
	HasNext     bool
	HasPrevious bool
}

// Type returns the event type.
func (e ItemChangedEvent) Type() EventType {
	return EventItemChanged
}

// NewItemChangedEvent creates a new ItemChangedEvent.
func NewItemChangedEvent(item Track, index int, duration time.Duration, hasNext, hasPrevious bool) ItemChangedEvent {
	return ItemChangedEvent{
		baseEvent:   newBaseEvent(),
		Item:        item,
		Index:       index,
		Duration:    duration,
		HasNext:     hasNext,
		HasPrevious: hasPrevious,
	}
}

// PlayingChangedEvent is emitted when the engine starts or stops producing audio.
type PlayingChangedEvent struct {
	baseEvent
	Playing bool
}

// Type returns the event type.
func (e PlayingChangedEvent) Type() EventType {
	return EventPlayingChanged
}

// NewPlayingChangedEvent creates a new PlayingChangedEvent.
func NewPlayingChangedEvent(playing bool) PlayingChangedEvent {
	return PlayingChangedEvent{
		baseEvent: newBaseEvent(),
		Playing:   playing,
	}
}

// BufferingChangedEvent is emitted when the engine enters or leaves buffering.
type BufferingChangedEvent struct {
	baseEvent
	Buffering bool
}

// Type returns the event type.
func (e BufferingChangedEvent) Type() EventType {
	return EventBufferingChanged
}

// NewBufferingChangedEvent creates a new BufferingChangedEvent.
func NewBufferingChangedEvent(buffering bool) BufferingChangedEvent {
	return BufferingChangedEvent{
		baseEvent: newBaseEvent(),
		Buffering: buffering,
	}
}

// PlaybackErrorEvent is emitted when the engine hits an error.
type PlaybackErrorEvent struct {
	baseEvent
	Err error
}

// Type returns the event type.
func (e PlaybackErrorEvent) Type() EventType {
	return EventPlaybackError
}

// NewPlaybackErrorEvent creates a new PlaybackErrorEvent.
func NewPlaybackErrorEvent(err error) PlaybackErrorEvent {
	return PlaybackErrorEvent{
		baseEvent: newBaseEvent(),
		Err:       err,
	}
}

// PlayerStateChangedEvent carries a snapshot of the player view-model.
type PlayerStateChangedEvent struct {
	baseEvent
	State PlayerState
}

// Type returns the event type.
func (e PlayerStateChangedEvent) Type() EventType {
	return EventPlayerStateChanged
}

// NewPlayerStateChangedEvent creates a new PlayerStateChangedEvent.
func NewPlayerStateChangedEvent(state PlayerState) PlayerStateChangedEvent {
	return PlayerStateChangedEvent{
		baseEvent: newBaseEvent(),
		State:     state,
	}
}

// PositionChangedEvent is published by the position poller.
type PositionChangedEvent struct {
	baseEvent
	Position time.Duration
	Duration time.Duration
}

// Type returns the event type.
func (e PositionChangedEvent) Type() EventType {
	return EventPositionChanged
}

// NewPositionChangedEvent creates a new PositionChangedEvent.
func NewPositionChangedEvent(position, duration time.Duration) PositionChangedEvent {
	return PositionChangedEvent{
		baseEvent: newBaseEvent(),
		Position:  position,
		Duration:  duration,
	}
}
