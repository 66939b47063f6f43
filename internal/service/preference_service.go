package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// PreferenceService gives typed, cached access to the well-known preference keys.
// All operations are thread-safe via sync.RWMutex.
type PreferenceService struct {
	// Dependencies (injected)
	logger *slog.Logger
	store  ports.PreferenceStore

	// Cached preferences
	lastPosition time.Duration
	shuffle      bool
	repeat       domain.RepeatMode

	mu sync.RWMutex
}

// NewPreferenceService creates a preference service with default values.
// Call Load to populate the cache from the store.
func NewPreferenceService(logger *slog.Logger, store ports.PreferenceStore) *PreferenceService {
	return &PreferenceService{
		logger: logger.With(slog.String("service", "preferences")),
		store:  store,
		repeat: domain.RepeatOff,
	}
}

// Load reads every key into the cache. Malformed stored values are logged
// and replaced by defaults; only store errors are returned.
func (s *PreferenceService) Load(ctx context.Context) error {
	position, err := s.load(ctx, domain.PrefLastPosition, func(v string) (any, error) {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil || ms < 0 {
			return nil, domain.NewValidationError(string(domain.PrefLastPosition), v, "not a non-negative millisecond count")
		}
		return time.Duration(ms) * time.Millisecond, nil
	})
	if err != nil {
		return err
	}

	shuffle, err := s.load(ctx, domain.PrefShuffle, func(v string) (any, error) {
		return strconv.ParseBool(v)
	})
	if err != nil {
		return err
	}

	repeat, err := s.load(ctx, domain.PrefRepeatMode, func(v string) (any, error) {
		return domain.ParseRepeatMode(v)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if position != nil {
		s.lastPosition = position.(time.Duration)
	}
	if shuffle != nil {
		s.shuffle = shuffle.(bool)
	}
	if repeat != nil {
		s.repeat = repeat.(domain.RepeatMode)
	}
	return nil
}

// load returns nil when the key is missing or malformed.
func (s *PreferenceService) load(ctx context.Context, key domain.PreferenceKey, parse func(string) (any, error)) (any, error) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	v, err := parse(raw)
	if err != nil {
		s.logger.Warn("ignoring malformed preference",
			slog.String("key", string(key)),
			slog.String("value", raw))
		return nil, nil
	}
	return v, nil
}

// LastPosition returns the saved playback position.
func (s *PreferenceService) LastPosition() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPosition
}

// SetLastPosition persists the playback position with millisecond precision.
func (s *PreferenceService) SetLastPosition(ctx context.Context, position time.Duration) error {
	if position < 0 {
		return domain.ErrInvalidPosition
	}

	if err := s.store.Set(ctx, domain.PrefLastPosition, strconv.FormatInt(position.Milliseconds(), 10)); err != nil {
		return err
	}

	s.mu.Lock()
	s.lastPosition = position.Truncate(time.Millisecond)
	s.mu.Unlock()
	return nil
}

// Shuffle returns the saved shuffle flag.
func (s *PreferenceService) Shuffle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuffle
}

// SetShuffle persists the shuffle flag.
func (s *PreferenceService) SetShuffle(ctx context.Context, enabled bool) error {
	if err := s.store.Set(ctx, domain.PrefShuffle, strconv.FormatBool(enabled)); err != nil {
		return err
	}

	s.mu.Lock()
	s.shuffle = enabled
	s.mu.Unlock()
	return nil
}

// RepeatMode returns the saved repeat mode.
func (s *PreferenceService) RepeatMode() domain.RepeatMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeat
}

// SetRepeatMode persists the repeat mode.
func (s *PreferenceService) SetRepeatMode(ctx context.Context, mode domain.RepeatMode) error {
	if err := s.store.Set(ctx, domain.PrefRepeatMode, mode.String()); err != nil {
		return err
	}

	s.mu.Lock()
	s.repeat = mode
	s.mu.Unlock()
	return nil
}

// Reset deletes every well-known key and restores defaults.
func (s *PreferenceService) Reset(ctx context.Context) error {
	for _, key := range domain.AllPreferenceKeys() {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastPosition = 0
	s.shuffle = false
	s.repeat = domain.RepeatOff

	s.logger.Info("preferences reset")
	return nil
}
