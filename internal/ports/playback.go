// Package ports define the PlaybackEngine interface.
package ports

import (
	"context"
	"time"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

// PlaybackEngine is the external media player the view-model drives.
// It owns decoding, output and its own buffering/playing/paused/ended state machine.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type PlaybackEngine interface {
	// Connect attaches to the engine's media session.
	// Returns an error if the engine cannot be reached.
	Connect(ctx context.Context) error

	// SetQueue replaces the queue and positions the engine on start.
	// Emits domain.ItemChangedEvent for the start item.
	SetQueue(tracks []domain.Track, start int) error

	// Play starts or resumes playback.
	Play() error

	// Pause pauses playback, keeping the position.
	Pause() error

	// Stop halts playback and rewinds to the start of the current item.
	Stop() error

	// Seek moves the position within the current item.
	Seek(position time.Duration) error

	// SkipNext moves to the next queue item.
	// Returns domain.ErrEndOfQueue when there is none.
	SkipNext() error

	// SkipPrevious moves to the previous queue item.
	// Returns domain.ErrStartOfQueue when there is none.
	SkipPrevious() error

	// SetRepeatMode controls what happens when an item or the queue ends.
	SetRepeatMode(mode domain.RepeatMode) error

	// SetShuffle switches between queue order and a shuffled order.
	// The current item stays current.
	SetShuffle(enabled bool) error

	// Position returns the current playback position.
	Position() time.Duration

	// Snapshot returns the full engine state.
	Snapshot() domain.EngineSnapshot

	// Events returns the change stream. Only domain.ItemChangedEvent,
	// domain.PlayingChangedEvent, domain.BufferingChangedEvent and
	// domain.PlaybackErrorEvent are sent. The channel is closed by Close.
	Events() <-chan domain.Event

	// Close releases the engine and closes the event channel.
	Close() error
}
