package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

func TestNoOp_RecordsUpdates(t *testing.T) {
	s := NewNoOp()

	require.NoError(t, s.UpdateMetadata(ports.SessionMetadata{TrackID: 1, Title: "A"}))
	require.NoError(t, s.UpdatePlaybackState(ports.SessionPaused, 3*time.Second))
	require.NoError(t, s.UpdateShuffle(true))
	require.NoError(t, s.UpdateLoopStatus(ports.LoopPlaylist))

	assert.Equal(t, "A", s.Metadata().Title)
	state, pos := s.State()
	assert.Equal(t, ports.SessionPaused, state)
	assert.Equal(t, 3*time.Second, pos)
	assert.True(t, s.Shuffle())
	assert.Equal(t, ports.LoopPlaylist, s.LoopStatus())
	assert.NoError(t, s.Close())
}

func TestNoOp_Send(t *testing.T) {
	s := NewNoOp()
	assert.NoError(t, s.Send(ports.CmdPlay, nil), "no handler is fine")

	boom := errors.New("boom")
	var got ports.SessionCommand
	s.SetCommandHandler(func(cmd ports.SessionCommand, _ interface{}) error {
		got = cmd
		return boom
	})

	assert.ErrorIs(t, s.Send(ports.CmdNext, nil), boom)
	assert.Equal(t, ports.CmdNext, got)
}
