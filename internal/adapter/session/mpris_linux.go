//go:build linux

package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

const (
	mprisInterface       = "org.mpris.MediaPlayer2"
	mprisPlayerInterface = "org.mpris.MediaPlayer2.Player"
	mprisBusPrefix       = "org.mpris.MediaPlayer2."
	mprisObjectPath      = "/org/mpris/MediaPlayer2"
	propertiesInterface  = "org.freedesktop.DBus.Properties"
)

var supportedMimeTypes = []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/mp4"}

// MPRISSession exports the player on the D-Bus session bus.
// D-Bus method calls arrive on godbus goroutines, so all state is mutex guarded.
type MPRISSession struct {
	logger *slog.Logger
	conn   *dbus.Conn
	name   string

	mu       sync.Mutex
	handler  ports.SessionCommandHandler
	metadata ports.SessionMetadata
	state    ports.SessionState
	position time.Duration
	shuffle  bool
	loop     ports.LoopStatus
}

// NewSession claims org.mpris.MediaPlayer2.<name> on the session bus.
func NewSession(logger *slog.Logger, name string) (ports.MediaSession, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	reply, err := conn.RequestName(mprisBusPrefix+name, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("bus name %s already taken", mprisBusPrefix+name)
	}

	s := newMPRIS(logger, name)
	s.conn = conn

	for _, iface := range []string{mprisInterface, mprisPlayerInterface, propertiesInterface} {
		if err := conn.Export(s, dbus.ObjectPath(mprisObjectPath), iface); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to export %s: %w", iface, err)
		}
	}

	s.logger.Info("mpris session exported", slog.String("bus_name", mprisBusPrefix+name))
	return s, nil
}

func newMPRIS(logger *slog.Logger, name string) *MPRISSession {
	return &MPRISSession{
		logger: logger.With(slog.String("component", "mpris")),
		name:   name,
		state:  ports.SessionStopped,
		loop:   ports.LoopNone,
	}
}

// UpdateMetadata updates the track metadata.
func (s *MPRISSession) UpdateMetadata(metadata ports.SessionMetadata) error {
	s.mu.Lock()
	s.metadata = metadata
	props := map[string]dbus.Variant{
		"Metadata": dbus.MakeVariant(s.metadataMapLocked()),
	}
	s.mu.Unlock()

	return s.emitPropertiesChanged(props)
}

// UpdatePlaybackState updates the playback status. Clients extrapolate the
// position from Rate, so only a transition into Playing emits Seeked.
func (s *MPRISSession) UpdatePlaybackState(state ports.SessionState, position time.Duration) error {
	s.mu.Lock()
	old := s.state
	s.state = state
	s.position = position
	props := map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant(s.playbackStatusLocked()),
	}
	s.mu.Unlock()

	if s.conn != nil && old != state && state == ports.SessionPlaying {
		if err := s.conn.Emit(dbus.ObjectPath(mprisObjectPath), mprisPlayerInterface+".Seeked", position.Microseconds()); err != nil {
			return err
		}
	}
	return s.emitPropertiesChanged(props)
}

// UpdateShuffle updates the shuffle flag.
func (s *MPRISSession) UpdateShuffle(enabled bool) error {
	s.mu.Lock()
	s.shuffle = enabled
	s.mu.Unlock()

	return s.emitPropertiesChanged(map[string]dbus.Variant{"Shuffle": dbus.MakeVariant(enabled)})
}

// UpdateLoopStatus updates the loop status.
func (s *MPRISSession) UpdateLoopStatus(status ports.LoopStatus) error {
	s.mu.Lock()
	s.loop = status
	s.mu.Unlock()

	return s.emitPropertiesChanged(map[string]dbus.Variant{"LoopStatus": dbus.MakeVariant(string(status))})
}

// SetCommandHandler sets the handler for media commands.
func (s *MPRISSession) SetCommandHandler(handler ports.SessionCommandHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// Close releases the bus connection.
func (s *MPRISSession) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// org.mpris.MediaPlayer2

func (s *MPRISSession) Raise() *dbus.Error { return nil }
func (s *MPRISSession) Quit() *dbus.Error  { return nil }

// org.mpris.MediaPlayer2.Player

func (s *MPRISSession) Play() *dbus.Error      { return s.dispatch(ports.CmdPlay, nil) }
func (s *MPRISSession) Pause() *dbus.Error     { return s.dispatch(ports.CmdPause, nil) }
func (s *MPRISSession) PlayPause() *dbus.Error { return s.dispatch(ports.CmdPlayPause, nil) }
func (s *MPRISSession) Stop() *dbus.Error      { return s.dispatch(ports.CmdStop, nil) }
func (s *MPRISSession) Next() *dbus.Error      { return s.dispatch(ports.CmdNext, nil) }
func (s *MPRISSession) Previous() *dbus.Error  { return s.dispatch(ports.CmdPrevious, nil) }

// Seek moves relative to the last reported position; offset is in microseconds.
func (s *MPRISSession) Seek(offset int64) *dbus.Error {
	s.mu.Lock()
	target := s.position + time.Duration(offset)*time.Microsecond
	s.mu.Unlock()

	if target < 0 {
		target = 0
	}
	return s.dispatch(ports.CmdSeek, target)
}

// SetPosition moves to an absolute position in microseconds.
func (s *MPRISSession) SetPosition(_ dbus.ObjectPath, position int64) *dbus.Error {
	return s.dispatch(ports.CmdSeek, time.Duration(position)*time.Microsecond)
}

func (s *MPRISSession) dispatch(cmd ports.SessionCommand, data interface{}) *dbus.Error {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()

	if handler == nil {
		return nil
	}
	if err := handler(cmd, data); err != nil {
		s.logger.Warn("media command failed", slog.String("command", cmd.String()), slog.String("error", err.Error()))
		return dbus.MakeFailedError(err)
	}
	return nil
}

// org.freedesktop.DBus.Properties

func (s *MPRISSession) Get(iface, prop string) (dbus.Variant, *dbus.Error) {
	all, derr := s.GetAll(iface)
	if derr != nil {
		return dbus.Variant{}, derr
	}
	v, ok := all[prop]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("unknown property: %s", prop))
	}
	return v, nil
}

func (s *MPRISSession) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	switch iface {
	case mprisInterface:
		return map[string]dbus.Variant{
			"CanQuit":             dbus.MakeVariant(false),
			"CanRaise":            dbus.MakeVariant(false),
			"HasTrackList":        dbus.MakeVariant(false),
			"Identity":            dbus.MakeVariant(s.name),
			"DesktopEntry":        dbus.MakeVariant(s.name),
			"SupportedUriSchemes": dbus.MakeVariant([]string{"file"}),
			"SupportedMimeTypes":  dbus.MakeVariant(supportedMimeTypes),
		}, nil
	case mprisPlayerInterface:
		s.mu.Lock()
		defer s.mu.Unlock()
		return map[string]dbus.Variant{
			"PlaybackStatus": dbus.MakeVariant(s.playbackStatusLocked()),
			"Metadata":       dbus.MakeVariant(s.metadataMapLocked()),
			"Position":       dbus.MakeVariant(s.position.Microseconds()),
			"Rate":           dbus.MakeVariant(1.0),
			"MinimumRate":    dbus.MakeVariant(1.0),
			"MaximumRate":    dbus.MakeVariant(1.0),
			"CanGoNext":      dbus.MakeVariant(true),
			"CanGoPrevious":  dbus.MakeVariant(true),
			"CanPlay":        dbus.MakeVariant(true),
			"CanPause":       dbus.MakeVariant(true),
			"CanSeek":        dbus.MakeVariant(true),
			"CanControl":     dbus.MakeVariant(true),
			"Volume":         dbus.MakeVariant(1.0),
			"Shuffle":        dbus.MakeVariant(s.shuffle),
			"LoopStatus":     dbus.MakeVariant(string(s.loop)),
		}, nil
	}
	return nil, dbus.MakeFailedError(fmt.Errorf("unknown interface: %s", iface))
}

func (s *MPRISSession) Set(iface, prop string, value dbus.Variant) *dbus.Error {
	if iface != mprisPlayerInterface {
		return nil
	}

	switch prop {
	case "Shuffle":
		enabled, ok := value.Value().(bool)
		if !ok {
			return dbus.MakeFailedError(fmt.Errorf("invalid type for Shuffle"))
		}
		return s.dispatch(ports.CmdSetShuffle, enabled)
	case "LoopStatus":
		status, ok := value.Value().(string)
		if !ok {
			return dbus.MakeFailedError(fmt.Errorf("invalid type for LoopStatus"))
		}
		return s.dispatch(ports.CmdSetLoopStatus, ports.LoopStatus(status))
	}
	return nil
}

func (s *MPRISSession) playbackStatusLocked() string {
	switch s.state {
	case ports.SessionPlaying:
		return "Playing"
	case ports.SessionPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

func (s *MPRISSession) metadataMapLocked() map[string]dbus.Variant {
	m := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath(fmt.Sprintf("/org/tunebox/track/%d", s.metadata.TrackID))),
	}
	if s.metadata.Title != "" {
		m["xesam:title"] = dbus.MakeVariant(s.metadata.Title)
	}
	if s.metadata.Artist != "" {
		m["xesam:artist"] = dbus.MakeVariant([]string{s.metadata.Artist})
	}
	if s.metadata.Album != "" {
		m["xesam:album"] = dbus.MakeVariant(s.metadata.Album)
	}
	if s.metadata.Duration > 0 {
		m["mpris:length"] = dbus.MakeVariant(s.metadata.Duration.Microseconds())
	}
	return m
}

func (s *MPRISSession) emitPropertiesChanged(props map[string]dbus.Variant) error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Emit(
		dbus.ObjectPath(mprisObjectPath),
		propertiesInterface+".PropertiesChanged",
		mprisPlayerInterface,
		props,
		[]string{},
	)
}

var _ ports.MediaSession = (*MPRISSession)(nil)
