// Package ports define the media session interface for OS media controls.
package ports

import (
	"time"
)

// SessionState is the playback state announced to the OS.
type SessionState int

const (
	SessionStopped SessionState = iota
	SessionPlaying
	SessionPaused
)

// SessionMetadata is the track information shown by OS media controls.
type SessionMetadata struct {
	TrackID  int64
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// LoopStatus is the MPRIS loop vocabulary.
type LoopStatus string

const (
	LoopNone     LoopStatus = "None"
	LoopTrack    LoopStatus = "Track"
	LoopPlaylist LoopStatus = "Playlist"
)

// SessionCommand is a command issued by OS media controls.
type SessionCommand int

const (
	CmdPlay SessionCommand = iota
	CmdPause
	CmdPlayPause
	CmdStop
	CmdNext
	CmdPrevious
	CmdSeek
	CmdSetShuffle
	CmdSetLoopStatus
)

// String returns the command name.
func (c SessionCommand) String() string {
	switch c {
	case CmdPlay:
		return "Play"
	case CmdPause:
		return "Pause"
	case CmdPlayPause:
		return "PlayPause"
	case CmdStop:
		return "Stop"
	case CmdNext:
		return "Next"
	case CmdPrevious:
		return "Previous"
	case CmdSeek:
		return "Seek"
	case CmdSetShuffle:
		return "SetShuffle"
	case CmdSetLoopStatus:
		return "SetLoopStatus"
	default:
		return "Unknown"
	}
}

// SessionCommandHandler receives commands from OS media controls.
// data is a time.Duration for CmdSeek, a bool for CmdSetShuffle and a
// LoopStatus for CmdSetLoopStatus; nil otherwise.
type SessionCommandHandler func(cmd SessionCommand, data interface{}) error

// MediaSession publishes player state to the platform media session.
type MediaSession interface {
	UpdateMetadata(metadata SessionMetadata) error
	UpdatePlaybackState(state SessionState, position time.Duration) error
	UpdateShuffle(enabled bool) error
	UpdateLoopStatus(status LoopStatus) error
	SetCommandHandler(handler SessionCommandHandler)
	Close() error
}
