// Package session provides platform media session adapters.
// Linux exports MPRIS over D-Bus; every other platform gets a no-op session.
package session

import (
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// NoOp is a MediaSession that records the last update and never fails.
// It is used where no platform session exists and in tests.
type NoOp struct {
	mu       sync.Mutex
	handler  ports.SessionCommandHandler
	metadata ports.SessionMetadata
	state    ports.SessionState
	position time.Duration
	shuffle  bool
	loop     ports.LoopStatus
}

// NewNoOp creates a no-op session.
func NewNoOp() *NoOp {
	return &NoOp{loop: ports.LoopNone}
}

func (s *NoOp) UpdateMetadata(metadata ports.SessionMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = metadata
	return nil
}

func (s *NoOp) UpdatePlaybackState(state ports.SessionState, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.position = position
	return nil
}

func (s *NoOp) UpdateShuffle(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = enabled
	return nil
}

func (s *NoOp) UpdateLoopStatus(status ports.LoopStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = status
	return nil
}

func (s *NoOp) SetCommandHandler(handler ports.SessionCommandHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

func (s *NoOp) Close() error {
	return nil
}

// Metadata returns the last metadata update.
func (s *NoOp) Metadata() ports.SessionMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadata
}

// State returns the last playback state update.
func (s *NoOp) State() (ports.SessionState, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.position
}

// Shuffle returns the last shuffle update.
func (s *NoOp) Shuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuffle
}

// LoopStatus returns the last loop status update.
func (s *NoOp) LoopStatus() ports.LoopStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// Send delivers a command to the registered handler, as OS media keys would.
func (s *NoOp) Send(cmd ports.SessionCommand, data interface{}) error {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()

	if handler == nil {
		return nil
	}
	return handler(cmd, data)
}

var _ ports.MediaSession = (*NoOp)(nil)
