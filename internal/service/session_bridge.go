package service

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// SessionBridge mirrors player state into the OS media session and routes
// media-key commands back to the player.
type SessionBridge struct {
	// Dependencies (injected)
	logger  *slog.Logger
	session ports.MediaSession
	player  *PlayerService
	bus     ports.EventBus

	subscription domain.SubscriptionID

	// Last values pushed to the session
	mu        sync.Mutex
	trackID   int64
	hasTrack  bool
	state     ports.SessionState
	stateSent bool
	shuffle   *bool
	loop      ports.LoopStatus
}

// NewSessionBridge creates a bridge. Call Start to connect it.
func NewSessionBridge(
	logger *slog.Logger,
	session ports.MediaSession,
	player *PlayerService,
	bus ports.EventBus,
) *SessionBridge {
	return &SessionBridge{
		logger:  logger.With(slog.String("service", "session_bridge")),
		session: session,
		player:  player,
		bus:     bus,
	}
}

// Start registers the command handler and pushes the current state.
func (b *SessionBridge) Start() {
	b.session.SetCommandHandler(b.handleCommand)
	b.subscription = b.bus.Subscribe(domain.EventPlayerStateChanged, func(e domain.Event) {
		if ev, ok := e.(domain.PlayerStateChangedEvent); ok {
			b.sync(ev.State)
		}
	})
	b.sync(b.player.State())
}

// Close detaches the bridge. The session itself is closed by its owner.
func (b *SessionBridge) Close() {
	if b.subscription != "" {
		b.bus.Unsubscribe(b.subscription)
		b.subscription = ""
	}
	b.session.SetCommandHandler(nil)
}

// sync pushes only the fields that changed since the last call.
func (b *SessionBridge) sync(st domain.PlayerState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if st.CurrentTrack != nil && (!b.hasTrack || b.trackID != st.CurrentTrack.ID) {
		b.hasTrack = true
		b.trackID = st.CurrentTrack.ID
		b.report("metadata", b.session.UpdateMetadata(ports.SessionMetadata{
			TrackID:  st.CurrentTrack.ID,
			Title:    st.CurrentTrack.Title,
			Artist:   st.CurrentTrack.ArtistName,
			Album:    st.CurrentTrack.AlbumName,
			Duration: st.Duration,
		}))
	}

	state := sessionState(st)
	if !b.stateSent || state != b.state {
		b.stateSent = true
		b.state = state
		b.report("playback_state", b.session.UpdatePlaybackState(state, st.Position))
	}

	if b.shuffle == nil || *b.shuffle != st.Shuffle {
		shuffle := st.Shuffle
		b.shuffle = &shuffle
		b.report("shuffle", b.session.UpdateShuffle(shuffle))
	}

	if loop := LoopStatusFor(st.Repeat); loop != b.loop {
		b.loop = loop
		b.report("loop_status", b.session.UpdateLoopStatus(loop))
	}
}

func (b *SessionBridge) report(what string, err error) {
	if err != nil {
		b.logger.Warn("media session update failed", slog.String("update", what), slog.String("error", err.Error()))
	}
}

func (b *SessionBridge) handleCommand(cmd ports.SessionCommand, data interface{}) error {
	b.logger.Debug("media command", slog.String("command", cmd.String()))

	switch cmd {
	case ports.CmdPlay:
		return b.player.Play()
	case ports.CmdPause:
		return b.player.Pause()
	case ports.CmdPlayPause:
		return b.player.Toggle()
	case ports.CmdStop:
		return b.player.Stop()
	case ports.CmdNext:
		return b.player.Next()
	case ports.CmdPrevious:
		return b.player.Previous()
	case ports.CmdSeek:
		position, ok := data.(time.Duration)
		if !ok {
			return fmt.Errorf("seek: unexpected payload %T", data)
		}
		return b.player.Seek(position)
	case ports.CmdSetShuffle:
		enabled, ok := data.(bool)
		if !ok {
			return fmt.Errorf("shuffle: unexpected payload %T", data)
		}
		return b.player.SetShuffle(enabled)
	case ports.CmdSetLoopStatus:
		status, ok := data.(ports.LoopStatus)
		if !ok {
			return fmt.Errorf("loop status: unexpected payload %T", data)
		}
		mode, err := RepeatModeFor(status)
		if err != nil {
			return err
		}
		return b.player.SetRepeat(mode)
	default:
		return fmt.Errorf("unsupported media command %s", cmd)
	}
}

func sessionState(st domain.PlayerState) ports.SessionState {
	switch {
	case st.IsPlaying:
		return ports.SessionPlaying
	case st.CurrentTrack != nil && st.Position > 0:
		return ports.SessionPaused
	default:
		return ports.SessionStopped
	}
}

// LoopStatusFor maps a repeat mode onto the MPRIS loop vocabulary.
func LoopStatusFor(mode domain.RepeatMode) ports.LoopStatus {
	switch mode {
	case domain.RepeatOne:
		return ports.LoopTrack
	case domain.RepeatAll:
		return ports.LoopPlaylist
	default:
		return ports.LoopNone
	}
}

// RepeatModeFor is the inverse of LoopStatusFor.
func RepeatModeFor(status ports.LoopStatus) (domain.RepeatMode, error) {
	switch status {
	case ports.LoopNone:
		return domain.RepeatOff, nil
	case ports.LoopTrack:
		return domain.RepeatOne, nil
	case ports.LoopPlaylist:
		return domain.RepeatAll, nil
	default:
		return domain.RepeatOff, domain.NewValidationError("loop_status", status, "must be None, Track or Playlist")
	}
}
