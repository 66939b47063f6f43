package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// DefaultPollInterval is how often the position is sampled while playing.
const DefaultPollInterval = time.Second

// PlayerService is the player view-model. It drives the playback engine,
// folds the engine's event stream into a PlayerState and samples the position
// while playing.
//
// It owns exactly two goroutines, the event dispatch loop and the position
// poller, both bound to its lifetime and joined by Shutdown.
type PlayerService struct {
	// Dependencies (injected)
	logger *slog.Logger
	engine ports.PlaybackEngine
	bus    ports.EventBus
	prefs  *PreferenceService

	pollInterval time.Duration

	// State
	state domain.PlayerState
	queue []domain.Track

	// Lifecycle
	started    bool
	closed     bool
	lifetime   context.Context
	cancel     context.CancelFunc
	pollCancel context.CancelFunc
	wg         sync.WaitGroup

	// Concurrency control
	mu sync.RWMutex
}

// NewPlayerService creates a player. Shuffle and repeat start from the saved preferences.
func NewPlayerService(
	logger *slog.Logger,
	engine ports.PlaybackEngine,
	bus ports.EventBus,
	prefs *PreferenceService,
	pollInterval time.Duration,
) *PlayerService {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	lifetime, cancel := context.WithCancel(context.Background())

	return &PlayerService{
		logger:       logger.With(slog.String("service", "player")),
		engine:       engine,
		bus:          bus,
		prefs:        prefs,
		pollInterval: pollInterval,
		lifetime:     lifetime,
		cancel:       cancel,
		state: domain.PlayerState{
			Index:   -1,
			Shuffle: prefs.Shuffle(),
			Repeat:  prefs.RepeatMode(),
		},
	}
}

// Start connects the engine and starts the dispatch loop.
//
// A connection failure sets PlayerState.ConnectionError, publishes the state
// and returns the error. It is not retried; calling Start again retries.
func (s *PlayerService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	if s.started {
		s.mu.Unlock()
		return domain.ErrAlreadyStarted
	}
	s.mu.Unlock()

	if err := s.engine.Connect(ctx); err != nil {
		s.logger.Error("playback engine connection failed", slog.String("error", err.Error()))
		s.update(func(st *domain.PlayerState) {
			st.ConnectionError = true
			st.LastError = err.Error()
		})
		return domain.NewServiceError("player", "start", "engine connection failed", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	s.started = true
	shuffle, repeat := s.state.Shuffle, s.state.Repeat
	s.wg.Add(1)
	go s.dispatchLoop()
	s.mu.Unlock()

	if err := s.engine.SetShuffle(shuffle); err != nil {
		s.logger.Warn("failed to restore shuffle", slog.String("error", err.Error()))
	}
	if err := s.engine.SetRepeatMode(repeat); err != nil {
		s.logger.Warn("failed to restore repeat mode", slog.String("error", err.Error()))
	}

	s.update(func(st *domain.PlayerState) {
		st.ConnectionError = false
		st.LastError = ""
	})
	s.logger.Info("player started")
	return nil
}

// dispatchLoop is the single consumer of engine events.
func (s *PlayerService) dispatchLoop() {
	defer s.wg.Done()

	events := s.engine.Events()
	for {
		select {
		case <-s.lifetime.Done():
			return
		case event, ok := <-events:
			if !ok {
				s.logger.Debug("engine event stream closed")
				return
			}
			s.handleEngineEvent(event)
		}
	}
}

// handleEngineEvent folds one engine event into the state.
//
// The engine drops events when its buffer is full, so the event only
// contributes what it alone carries (errors, transient buffering). Playing,
// the current item, adjacency and position come from a fresh snapshot, and the
// poller follows snap.Playing.
func (s *PlayerService) handleEngineEvent(event domain.Event) {
	s.mu.Lock()
	snap := s.engine.Snapshot()

	switch e := event.(type) {
	case domain.ItemChangedEvent:
		s.logger.Debug("item changed", slog.Int64("track_id", e.Item.ID), slog.Int("index", e.Index))

	case domain.PlayingChangedEvent:
		if e.Playing && snap.Playing {
			s.state.LastError = ""
		}

	case domain.BufferingChangedEvent:
		s.state.IsBuffering = e.Buffering

	case domain.PlaybackErrorEvent:
		if e.Err != nil {
			s.state.LastError = e.Err.Error()
		}
		s.logger.Warn("playback error", slog.Any("error", e.Err))

	default:
		s.mu.Unlock()
		s.logger.Warn("ignoring unexpected engine event", slog.String("event_type", string(event.Type())))
		return
	}

	if _, ok := event.(domain.BufferingChangedEvent); !ok {
		s.state.IsBuffering = snap.Buffering
	}
	s.applySnapshotLocked(snap)

	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlayerStateChangedEvent(snapshot))
}

// applySnapshotLocked copies the engine's view of playback into the state and
// starts or stops the poller to match. Caller must hold s.mu.
func (s *PlayerService) applySnapshotLocked(snap domain.EngineSnapshot) {
	if snap.Current != nil {
		item := *snap.Current
		s.state.CurrentTrack = &item
		s.state.Index = snap.Index
	} else {
		s.state.CurrentTrack = nil
		s.state.Index = -1
	}
	s.state.Duration = snap.Duration
	s.state.Position = snap.Position
	s.state.HasNext = snap.HasNext
	s.state.HasPrevious = snap.HasPrevious
	s.state.IsPlaying = snap.Playing

	if snap.Playing {
		s.startPollingLocked()
	} else {
		s.stopPollingLocked()
	}
}

// startPollingLocked starts the position poller if it is not running.
// Caller must hold s.mu.
func (s *PlayerService) startPollingLocked() {
	if s.pollCancel != nil || s.closed {
		return
	}

	ctx, cancel := context.WithCancel(s.lifetime)
	s.pollCancel = cancel
	s.wg.Add(1)
	go s.pollLoop(ctx)
}

// stopPollingLocked cancels the poller. Caller must hold s.mu.
func (s *PlayerService) stopPollingLocked() {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
}

func (s *PlayerService) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *PlayerService) pollOnce(ctx context.Context) {
	position := s.engine.Position()

	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.state.Position = position
	duration := s.state.Duration
	s.mu.Unlock()

	if err := s.prefs.SetLastPosition(ctx, position); err != nil && ctx.Err() == nil {
		s.logger.Warn("failed to save position", slog.String("error", err.Error()))
	}

	s.bus.Publish(domain.NewPositionChangedEvent(position, duration))
}

// PlayTracks replaces the queue and starts playing at start.
func (s *PlayerService) PlayTracks(tracks []domain.Track, start int) error {
	if err := s.setQueue(tracks, start); err != nil {
		return err
	}
	s.savePosition(0)
	return s.engine.Play()
}

// Resume replaces the queue and continues index from the saved position.
func (s *PlayerService) Resume(tracks []domain.Track, index int) error {
	if err := s.setQueue(tracks, index); err != nil {
		return err
	}

	if position := s.prefs.LastPosition(); position > 0 {
		if err := s.engine.Seek(position); err != nil {
			s.logger.Warn("saved position not seekable, starting from the top",
				slog.Duration("position", position),
				slog.String("error", err.Error()))
		}
	}
	return s.engine.Play()
}

func (s *PlayerService) setQueue(tracks []domain.Track, start int) error {
	if err := s.usable(); err != nil {
		return err
	}
	if err := s.engine.SetQueue(tracks, start); err != nil {
		return err
	}

	s.mu.Lock()
	s.queue = append([]domain.Track(nil), tracks...)
	s.mu.Unlock()
	return nil
}

// Play resumes the current item.
func (s *PlayerService) Play() error {
	if err := s.requireQueue(); err != nil {
		return err
	}
	return s.engine.Play()
}

// Pause pauses the current item.
func (s *PlayerService) Pause() error {
	if err := s.requireQueue(); err != nil {
		return err
	}
	return s.engine.Pause()
}

// Toggle switches between playing and paused.
func (s *PlayerService) Toggle() error {
	if s.State().IsPlaying {
		return s.Pause()
	}
	return s.Play()
}

// Stop halts playback, cancels the poller and clears the saved position.
func (s *PlayerService) Stop() error {
	if err := s.requireQueue(); err != nil {
		return err
	}
	if err := s.engine.Stop(); err != nil {
		return err
	}

	s.update(func(st *domain.PlayerState) {
		s.stopPollingLocked()
		st.IsPlaying = false
		st.Position = 0
	})

	s.savePosition(0)
	return nil
}

// Seek moves within the current item.
func (s *PlayerService) Seek(position time.Duration) error {
	if err := s.requireQueue(); err != nil {
		return err
	}
	if err := s.engine.Seek(position); err != nil {
		return err
	}

	s.mu.Lock()
	s.state.Position = position
	duration := s.state.Duration
	s.mu.Unlock()

	s.savePosition(position)
	s.bus.Publish(domain.NewPositionChangedEvent(position, duration))
	return nil
}

// Next skips to the next item.
func (s *PlayerService) Next() error {
	if err := s.requireQueue(); err != nil {
		return err
	}
	return s.engine.SkipNext()
}

// Previous skips to the previous item.
func (s *PlayerService) Previous() error {
	if err := s.requireQueue(); err != nil {
		return err
	}
	return s.engine.SkipPrevious()
}

// SetShuffle changes and persists the shuffle flag.
func (s *PlayerService) SetShuffle(enabled bool) error {
	if err := s.applyToEngine(func() error { return s.engine.SetShuffle(enabled) }); err != nil {
		return err
	}
	if err := s.prefs.SetShuffle(s.lifetime, enabled); err != nil {
		s.logger.Warn("failed to save shuffle", slog.String("error", err.Error()))
	}

	snapshot := s.engine.Snapshot()
	s.update(func(st *domain.PlayerState) {
		st.Shuffle = enabled
		if snapshot.Current != nil {
			st.HasNext = snapshot.HasNext
			st.HasPrevious = snapshot.HasPrevious
		}
	})
	return nil
}

// SetRepeat changes and persists the repeat mode.
func (s *PlayerService) SetRepeat(mode domain.RepeatMode) error {
	if err := s.applyToEngine(func() error { return s.engine.SetRepeatMode(mode) }); err != nil {
		return err
	}
	if err := s.prefs.SetRepeatMode(s.lifetime, mode); err != nil {
		s.logger.Warn("failed to save repeat mode", slog.String("error", err.Error()))
	}

	snapshot := s.engine.Snapshot()
	s.update(func(st *domain.PlayerState) {
		st.Repeat = mode
		if snapshot.Current != nil {
			st.HasNext = snapshot.HasNext
			st.HasPrevious = snapshot.HasPrevious
		}
	})
	return nil
}

// applyToEngine runs fn when the engine is connected. Before Start the
// setting is only recorded and applied by Start.
func (s *PlayerService) applyToEngine(fn func() error) error {
	s.mu.RLock()
	closed, started := s.closed, s.started
	s.mu.RUnlock()

	if closed {
		return domain.ErrClosed
	}
	if !started {
		return nil
	}
	return fn()
}

// State returns a copy of the current player state.
func (s *PlayerService) State() domain.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Queue returns a copy of the current queue in queue order.
func (s *PlayerService) Queue() []domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Track(nil), s.queue...)
}

// Shutdown cancels the poller and the dispatch loop and waits for both.
// The engine is left to its owner.
func (s *PlayerService) Shutdown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopPollingLocked()
	s.cancel()
	started := s.started
	s.mu.Unlock()

	// Release lock before waiting for goroutines to exit
	s.wg.Wait()

	if started {
		s.mu.RLock()
		hasQueue := len(s.queue) > 0
		s.mu.RUnlock()
		if hasQueue {
			// The lifetime context is already cancelled
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.prefs.SetLastPosition(ctx, s.engine.Position()); err != nil {
				s.logger.Warn("failed to save final position", slog.String("error", err.Error()))
			}
		}
	}

	s.logger.Info("player stopped")
	return nil
}

func (s *PlayerService) usable() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return domain.ErrClosed
	}
	if !s.started {
		return domain.ErrNotConnected
	}
	return nil
}

func (s *PlayerService) requireQueue() error {
	if err := s.usable(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.queue) == 0 {
		return domain.ErrQueueEmpty
	}
	return nil
}

func (s *PlayerService) savePosition(position time.Duration) {
	if err := s.prefs.SetLastPosition(s.lifetime, position); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("failed to save position", slog.String("error", err.Error()))
	}
}

// update applies fn to the state and publishes the result.
func (s *PlayerService) update(fn func(st *domain.PlayerState)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlayerStateChangedEvent(snapshot))
}
