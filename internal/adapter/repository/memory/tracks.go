// Package memory provides in-memory repository implementations.
// They back tests and the "memory" drivers; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// TrackStore implements ports.TrackStore with a map keyed by track ID.
//
// Thread-safe: All operations protected by sync.RWMutex.
type TrackStore struct {
	bus    ports.EventBus
	tracks map[int64]domain.Track
	mu     sync.RWMutex
}

// NewTrackStore creates an empty track store.
// bus may be nil, in which case no change events are published.
func NewTrackStore(bus ports.EventBus) *TrackStore {
	return &TrackStore{
		bus:    bus,
		tracks: make(map[int64]domain.Track),
	}
}

// Count returns the number of stored tracks.
func (s *TrackStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tracks)), nil
}

// InsertAll stores the batch, replacing records with the same ID.
func (s *TrackStore) InsertAll(ctx context.Context, tracks []domain.Track) error {
	if err := ctx.Err(); err != nil {
		return domain.NewRepositoryError("insert_all", "tracks", "context done", err)
	}

	s.mu.Lock()
	for _, t := range tracks {
		s.tracks[t.ID] = cloneTrack(t)
	}
	s.mu.Unlock()

	// Published after the lock is released so observers can read immediately
	if s.bus != nil {
		s.bus.Publish(domain.NewCatalogChangedEvent(len(tracks)))
	}
	return nil
}

// All returns every track ordered by title, then ID.
func (s *TrackStore) All(ctx context.Context) ([]domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]domain.Track, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, cloneTrack(t))
	}
	s.mu.RUnlock()

	SortByTitle(out)
	return out, nil
}

// Get returns a track by ID.
func (s *TrackStore) Get(ctx context.Context, id int64) (*domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tracks[id]
	if !ok {
		return nil, domain.ErrTrackNotFound
	}
	out := cloneTrack(t)
	return &out, nil
}

// SortByTitle orders tracks by title, ties broken by ID.
func SortByTitle(tracks []domain.Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].Title != tracks[j].Title {
			return tracks[i].Title < tracks[j].Title
		}
		return tracks[i].ID < tracks[j].ID
	})
}

func cloneTrack(t domain.Track) domain.Track {
	if t.Artwork != nil {
		t.Artwork = append([]byte(nil), t.Artwork...)
	}
	return t
}

// Verify interface implementation
var _ ports.TrackStore = (*TrackStore)(nil)
