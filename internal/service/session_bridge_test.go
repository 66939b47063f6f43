package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunebox/internal/adapter/session"
	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/logger"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

func newBridgeFixture(t *testing.T) (*playerFixture, *session.NoOp) {
	t.Helper()
	f := newPlayerFixture(t)
	f.start(t)

	sess := session.NewNoOp()
	bridge := NewSessionBridge(logger.NewTestLogger(), sess, f.player, f.bus)
	bridge.Start()
	t.Cleanup(bridge.Close)
	return f, sess
}

func TestSessionBridge_InitialState(t *testing.T) {
	_, sess := newBridgeFixture(t)

	state, _ := sess.State()
	assert.Equal(t, ports.SessionStopped, state)
	assert.Equal(t, ports.LoopNone, sess.LoopStatus())
	assert.False(t, sess.Shuffle())
}

func TestSessionBridge_MirrorsPlayer(t *testing.T) {
	f, sess := newBridgeFixture(t)

	require.NoError(t, f.player.PlayTracks(playerTracks(), 1))
	require.Eventually(t, func() bool {
		state, _ := sess.State()
		return state == ports.SessionPlaying
	}, waitFor, waitTick)

	meta := sess.Metadata()
	assert.Equal(t, int64(2), meta.TrackID)
	assert.Equal(t, "Harmattan", meta.Title)
	assert.Equal(t, "Kofi Mensah", meta.Artist)

	f.clock.Advance(5 * time.Second)
	require.NoError(t, f.player.Pause())
	require.Eventually(t, func() bool {
		state, _ := sess.State()
		return state == ports.SessionPaused
	}, waitFor, waitTick)

	require.NoError(t, f.player.SetRepeat(domain.RepeatOne))
	assert.Equal(t, ports.LoopTrack, sess.LoopStatus())

	require.NoError(t, f.player.SetShuffle(true))
	assert.True(t, sess.Shuffle())
}

func TestSessionBridge_StopFromPaused(t *testing.T) {
	f, sess := newBridgeFixture(t)

	require.NoError(t, f.player.PlayTracks(playerTracks(), 0))
	f.eventually(t, func(st domain.PlayerState) bool { return st.IsPlaying }, "playing")
	f.clock.Advance(5 * time.Second)
	require.NoError(t, f.player.Pause())
	require.Eventually(t, func() bool {
		state, _ := sess.State()
		return state == ports.SessionPaused
	}, waitFor, waitTick)

	require.NoError(t, f.player.Stop())

	state, position := sess.State()
	assert.Equal(t, ports.SessionStopped, state)
	assert.Zero(t, position)
}

func TestSessionBridge_RoutesCommands(t *testing.T) {
	f, sess := newBridgeFixture(t)

	assert.ErrorIs(t, sess.Send(ports.CmdPlay, nil), domain.ErrQueueEmpty)

	require.NoError(t, f.player.PlayTracks(playerTracks(), 0))
	f.eventually(t, func(st domain.PlayerState) bool { return st.IsPlaying }, "playing")

	require.NoError(t, sess.Send(ports.CmdPlayPause, nil))
	f.eventually(t, func(st domain.PlayerState) bool { return !st.IsPlaying }, "paused by media key")

	require.NoError(t, sess.Send(ports.CmdNext, nil))
	f.eventually(t, func(st domain.PlayerState) bool { return st.Index == 1 }, "next")

	require.NoError(t, sess.Send(ports.CmdPrevious, nil))
	f.eventually(t, func(st domain.PlayerState) bool { return st.Index == 0 }, "previous")

	require.NoError(t, sess.Send(ports.CmdSeek, 20*time.Second))
	assert.Equal(t, 20*time.Second, f.engine.Engine.Position())

	require.NoError(t, sess.Send(ports.CmdSetShuffle, true))
	assert.True(t, f.player.State().Shuffle)

	require.NoError(t, sess.Send(ports.CmdSetLoopStatus, ports.LoopPlaylist))
	assert.Equal(t, domain.RepeatAll, f.player.State().Repeat)

	require.NoError(t, sess.Send(ports.CmdStop, nil))
	assert.Zero(t, f.engine.Engine.Position())

	assert.Error(t, sess.Send(ports.CmdSeek, "ten seconds"))
	assert.Error(t, sess.Send(ports.CmdSetLoopStatus, ports.LoopStatus("Forever")))
}

func TestLoopStatusMapping(t *testing.T) {
	for _, mode := range []domain.RepeatMode{domain.RepeatOff, domain.RepeatOne, domain.RepeatAll} {
		back, err := RepeatModeFor(LoopStatusFor(mode))
		require.NoError(t, err)
		assert.Equal(t, mode, back)
	}
}
