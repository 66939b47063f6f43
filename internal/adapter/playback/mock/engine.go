// Package mock provides an in-process simulated implementation of the PlaybackEngine interface.
// It keeps a queue and a clock-driven position without producing audio, and
// is used by tests and by the CLI when no real media session is available.
package mock

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// DefaultDuration is the simulated length of an item without an explicit duration.
const DefaultDuration = 3 * time.Minute

// eventBuffer is the capacity of the event channel. Events that do not fit are dropped.
const eventBuffer = 64

// Engine is a simulated playback engine.
//
// Thread-safety: This implementation is thread-safe.
type Engine struct {
	// Dependencies
	logger *slog.Logger
	now    func() time.Time
	rng    *rand.Rand

	// Lifecycle
	connected bool
	closed    bool
	events    chan domain.Event

	// Queue state. order maps play order to queue index; pos indexes order.
	queue []domain.Track
	order []int
	pos   int

	// Playback state. While playing, position is base + now - startedAt.
	playing   bool
	buffering bool
	base      time.Duration
	startedAt time.Time

	repeat  domain.RepeatMode
	shuffle bool

	defaultDuration time.Duration
	durations       map[int64]time.Duration

	// Behavior configuration (for testing error scenarios)
	failConnect bool
	failPlay    bool

	mu sync.Mutex
}

// NewEngine creates a disconnected engine.
func NewEngine() *Engine {
	return &Engine{
		logger:          slog.Default(),
		now:             time.Now,
		rng:             rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		events:          make(chan domain.Event, eventBuffer),
		defaultDuration: DefaultDuration,
		durations:       make(map[int64]time.Duration),
	}
}

// SetLogger sets the logger for this engine.
func (m *Engine) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger.With(slog.String("component", "mock_engine"))
}

// SetClock replaces the time source (for testing).
func (m *Engine) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetSeed makes shuffle order deterministic (for testing).
func (m *Engine) SetSeed(seed uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rng = rand.New(rand.NewPCG(seed, 0))
}

// SetDefaultDuration sets the length used for items without an explicit duration.
func (m *Engine) SetDefaultDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d > 0 {
		m.defaultDuration = d
	}
}

// SetDuration sets the simulated length of one track.
func (m *Engine) SetDuration(trackID int64, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[trackID] = d
}

// SetFailConnect configures the engine to refuse connections (for testing).
func (m *Engine) SetFailConnect(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failConnect = fail
}

// SetFailPlay configures the engine to fail playback (for testing).
func (m *Engine) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// Connect attaches to the simulated session. Connecting twice is a no-op.
func (m *Engine) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.ErrClosed
	}
	if m.failConnect {
		return domain.NewPlaybackEngineError("connect", "mock session refused connection", domain.ErrNotConnected)
	}

	m.connected = true
	return nil
}

// SetQueue replaces the queue. Playback stops and the engine moves to start.
func (m *Engine) SetQueue(tracks []domain.Track, start int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}
	if len(tracks) == 0 {
		return domain.ErrQueueEmpty
	}
	if start < 0 || start >= len(tracks) {
		return domain.ErrInvalidIndex
	}

	wasPlaying := m.playing
	m.queue = append([]domain.Track(nil), tracks...)
	m.order = identity(len(tracks))
	m.pos = start
	if m.shuffle {
		m.reshuffleLocked()
	}
	m.playing = false
	m.buffering = false
	m.base = 0

	if wasPlaying {
		m.emitLocked(domain.NewPlayingChangedEvent(false))
	}
	m.emitItemLocked()
	return nil
}

// Play starts or resumes playback of the current item.
func (m *Engine) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}
	if len(m.queue) == 0 {
		return domain.ErrQueueEmpty
	}
	if m.failPlay {
		err := domain.NewPlaybackEngineError("play", "mock playback failed", domain.ErrPlaybackFailed)
		m.emitLocked(domain.NewPlaybackErrorEvent(err))
		return err
	}

	m.advanceLocked()
	if m.playing {
		return nil
	}

	// Ended items restart from the top
	if m.base >= m.durationLocked() {
		m.base = 0
	}

	m.emitLocked(domain.NewBufferingChangedEvent(true))
	m.emitLocked(domain.NewBufferingChangedEvent(false))
	m.playing = true
	m.startedAt = m.now()
	m.emitLocked(domain.NewPlayingChangedEvent(true))
	return nil
}

// Pause freezes the position.
func (m *Engine) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}

	m.advanceLocked()
	if !m.playing {
		return nil
	}

	m.base = m.positionLocked()
	m.playing = false
	m.emitLocked(domain.NewPlayingChangedEvent(false))
	return nil
}

// Stop halts playback and rewinds the current item.
func (m *Engine) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}

	wasPlaying := m.playing
	m.playing = false
	m.base = 0
	if wasPlaying {
		m.emitLocked(domain.NewPlayingChangedEvent(false))
	}
	return nil
}

// Seek moves within the current item.
func (m *Engine) Seek(position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}
	if len(m.queue) == 0 {
		return domain.ErrQueueEmpty
	}

	m.advanceLocked()
	if position < 0 || position > m.durationLocked() {
		return domain.ErrInvalidPosition
	}

	m.base = position
	m.startedAt = m.now()
	return nil
}

// SkipNext moves to the next item in play order.
func (m *Engine) SkipNext() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}

	m.advanceLocked()
	next, ok := m.nextPosLocked()
	if !ok {
		return domain.ErrEndOfQueue
	}
	m.moveLocked(next)
	return nil
}

// SkipPrevious moves to the previous item in play order.
func (m *Engine) SkipPrevious() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}

	m.advanceLocked()
	prev, ok := m.prevPosLocked()
	if !ok {
		return domain.ErrStartOfQueue
	}
	m.moveLocked(prev)
	return nil
}

// SetRepeatMode sets the repeat behaviour.
func (m *Engine) SetRepeatMode(mode domain.RepeatMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}

	m.advanceLocked()
	m.repeat = mode
	return nil
}

// SetShuffle enables or disables shuffled play order.
func (m *Engine) SetShuffle(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.readyLocked(); err != nil {
		return err
	}

	m.advanceLocked()
	if m.shuffle == enabled {
		return nil
	}
	m.shuffle = enabled

	if len(m.queue) == 0 {
		return nil
	}
	if enabled {
		m.reshuffleLocked()
	} else {
		current := m.order[m.pos]
		m.order = identity(len(m.queue))
		m.pos = current
	}
	return nil
}

// Position returns the current playback position.
func (m *Engine) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.advanceLocked()
	return m.positionLocked()
}

// Snapshot returns the full engine state.
func (m *Engine) Snapshot() domain.EngineSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.advanceLocked()

	snap := domain.EngineSnapshot{
		Index:       -1,
		Playing:     m.playing,
		Buffering:   m.buffering,
		QueueLength: len(m.queue),
	}
	if len(m.queue) == 0 {
		return snap
	}

	current := m.queue[m.order[m.pos]]
	snap.Current = &current
	snap.Index = m.order[m.pos]
	snap.Duration = m.durationLocked()
	snap.Position = m.positionLocked()
	_, snap.HasNext = m.nextPosLocked()
	_, snap.HasPrevious = m.prevPosLocked()
	return snap
}

// Events returns the change stream.
func (m *Engine) Events() <-chan domain.Event {
	return m.events
}

// Close disconnects the engine and closes the event channel.
func (m *Engine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.connected = false
	m.playing = false
	close(m.events)
	return nil
}

// SimulateError emits a PlaybackErrorEvent and stops playback (for testing).
func (m *Engine) SimulateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.playing {
		m.base = m.positionLocked()
		m.playing = false
		m.emitLocked(domain.NewPlayingChangedEvent(false))
	}
	m.emitLocked(domain.NewPlaybackErrorEvent(err))
}

func (m *Engine) readyLocked() error {
	if m.closed {
		return domain.ErrClosed
	}
	if !m.connected {
		return domain.ErrNotConnected
	}
	return nil
}

func (m *Engine) durationLocked() time.Duration {
	if len(m.queue) == 0 {
		return 0
	}
	if d, ok := m.durations[m.queue[m.order[m.pos]].ID]; ok && d > 0 {
		return d
	}
	return m.defaultDuration
}

func (m *Engine) positionLocked() time.Duration {
	if !m.playing {
		return m.base
	}
	p := m.base + m.now().Sub(m.startedAt)
	if d := m.durationLocked(); p > d {
		return d
	}
	return p
}

func (m *Engine) nextPosLocked() (int, bool) {
	if len(m.order) == 0 {
		return 0, false
	}
	if m.pos+1 < len(m.order) {
		return m.pos + 1, true
	}
	if m.repeat == domain.RepeatAll {
		return 0, true
	}
	return 0, false
}

func (m *Engine) prevPosLocked() (int, bool) {
	if len(m.order) == 0 {
		return 0, false
	}
	if m.pos > 0 {
		return m.pos - 1, true
	}
	if m.repeat == domain.RepeatAll {
		return len(m.order) - 1, true
	}
	return 0, false
}

// moveLocked positions the engine on order[pos] at zero, keeping the playing state.
func (m *Engine) moveLocked(pos int) {
	m.pos = pos
	m.base = 0
	m.startedAt = m.now()
	m.emitItemLocked()
}

// advanceLocked applies item ends that happened since the last call.
func (m *Engine) advanceLocked() {
	for m.playing {
		d := m.durationLocked()
		elapsed := m.base + m.now().Sub(m.startedAt)
		if elapsed < d {
			return
		}
		endedAt := m.startedAt.Add(d - m.base)

		switch next, ok := m.nextPosLocked(); {
		case m.repeat == domain.RepeatOne:
			m.base = 0
			m.startedAt = endedAt
		case ok:
			m.pos = next
			m.base = 0
			m.startedAt = endedAt
			m.emitItemLocked()
		default:
			m.base = d
			m.playing = false
			m.emitLocked(domain.NewPlayingChangedEvent(false))
		}

		// A zero-length item would loop forever
		if d <= 0 {
			return
		}
	}
}

func (m *Engine) reshuffleLocked() {
	current := m.order[m.pos]
	rest := make([]int, 0, len(m.queue)-1)
	for i := range m.queue {
		if i != current {
			rest = append(rest, i)
		}
	}
	m.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
	m.order = append([]int{current}, rest...)
	m.pos = 0
}

func (m *Engine) emitItemLocked() {
	_, hasNext := m.nextPosLocked()
	_, hasPrev := m.prevPosLocked()
	m.emitLocked(domain.NewItemChangedEvent(m.queue[m.order[m.pos]], m.order[m.pos], m.durationLocked(), hasNext, hasPrev))
}

func (m *Engine) emitLocked(event domain.Event) {
	if m.closed {
		return
	}
	select {
	case m.events <- event:
	default:
		m.logger.Warn("engine event dropped", slog.String("event_type", string(event.Type())))
	}
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Verify that Engine implements the PlaybackEngine interface
var _ ports.PlaybackEngine = (*Engine)(nil)
