// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the tunebox catalog and player.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder values used when a bundled asset carries no readable metadata.
const (
	PlaceholderTitle  = "Unknown Title"
	PlaceholderAlbum  = "Unknown Album"
	PlaceholderArtist = "Unknown Artist"
)

// AssetRef names a bundled audio resource relative to the asset root.
type AssetRef string

// String returns the asset path.
func (r AssetRef) String() string {
	return string(r)
}

// Track is a seeded catalog record.
// Tracks are created once during first-ever seeding and never updated afterwards.
type Track struct {
	// ID is assigned sequentially during seeding, starting at 1
	ID int64

	// Title is the song title (PlaceholderTitle if unreadable)
	Title string

	// ArtistName is resolved from the static asset-to-artist mapping
	ArtistName string

	// AlbumName is the album name (PlaceholderAlbum if unreadable)
	AlbumName string

	// AssetRef points at the bundled audio file
	AssetRef AssetRef

	// Artwork is the raw image payload embedded in the asset, nil when absent
	Artwork []byte
}

// HasArtwork reports whether the track carries embedded artwork.
func (t Track) HasArtwork() bool {
	return len(t.Artwork) > 0
}

// Artist is a static, hard-coded artist profile.
type Artist struct {
	ID       int
	Name     string
	Bio      string
	ImageRef AssetRef
}

// AssetBinding maps a bundled audio asset to the artist who performs it.
// The order of bindings determines the ids assigned during seeding.
type AssetBinding struct {
	Asset    AssetRef
	ArtistID int
}

// AssetMetadata holds the fields extracted from a bundled asset.
// Empty strings and a nil Artwork mean the field was absent.
type AssetMetadata struct {
	Title   string
	Album   string
	Artwork []byte
}

// IsEmpty reports whether no field could be read.
func (m AssetMetadata) IsEmpty() bool {
	return m.Title == "" && m.Album == "" && len(m.Artwork) == 0
}

// RepeatMode controls what happens when the current item ends.
type RepeatMode int

const (
	// RepeatOff stops at the end of the queue
	RepeatOff RepeatMode = iota

	// RepeatOne replays the current item
	RepeatOne

	// RepeatAll wraps around to the start of the queue
	RepeatAll
)

// String returns the persisted representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOne:
		return "one"
	case RepeatAll:
		return "all"
	default:
		return "off"
	}
}

// ParseRepeatMode parses the output of RepeatMode.String.
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return RepeatOff, nil
	case "one":
		return RepeatOne, nil
	case "all":
		return RepeatAll, nil
	default:
		return RepeatOff, NewValidationError("repeat_mode", s, fmt.Sprintf("unknown repeat mode %q", s))
	}
}

// EngineSnapshot is a point-in-time view of the playback engine.
type EngineSnapshot struct {
	Current     *Track
	Index       int
	Playing     bool
	Buffering   bool
	Duration    time.Duration
	Position    time.Duration
	HasNext     bool
	HasPrevious bool
	QueueLength int
}

// PlayerState is the state exposed by the player view-model.
type PlayerState struct {
	// CurrentTrack is the item the engine is positioned on (nil if none)
	CurrentTrack *Track

	// Index is the queue index of CurrentTrack (-1 if none)
	Index int

	IsPlaying   bool
	IsBuffering bool

	Duration time.Duration
	Position time.Duration

	HasNext     bool
	HasPrevious bool

	Shuffle bool
	Repeat  RepeatMode

	// ConnectionError is set when the engine could not be reached.
	ConnectionError bool

	// LastError holds the most recent engine error message.
	LastError string
}

// Clone returns a copy that shares no mutable memory with s.
func (s PlayerState) Clone() PlayerState {
	out := s
	if s.CurrentTrack != nil {
		t := *s.CurrentTrack
		out.CurrentTrack = &t
	}
	return out
}

// PreferenceKey is one of the well-known preference keys.
type PreferenceKey string

const (
	// PrefLastPosition holds the last playback position in milliseconds.
	PrefLastPosition PreferenceKey = "playback.last_position"

	// PrefShuffle holds the shuffle toggle ("true"/"false").
	PrefShuffle PreferenceKey = "playback.shuffle"

	// PrefRepeatMode holds RepeatMode.String().
	PrefRepeatMode PreferenceKey = "playback.repeat_mode"
)

// AllPreferenceKeys lists every well-known key.
func AllPreferenceKeys() []PreferenceKey {
	return []PreferenceKey{PrefLastPosition, PrefShuffle, PrefRepeatMode}
}
