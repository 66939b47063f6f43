package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// CatalogService answers catalog queries over the track store and the static artists.
type CatalogService struct {
	// Dependencies (injected)
	logger  *slog.Logger
	store   ports.TrackStore
	artists ports.ArtistCatalog
	bus     ports.EventBus
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	logger *slog.Logger,
	store ports.TrackStore,
	artists ports.ArtistCatalog,
	bus ports.EventBus,
) *CatalogService {
	return &CatalogService{
		logger:  logger.With(slog.String("service", "catalog")),
		store:   store,
		artists: artists,
		bus:     bus,
	}
}

// Artists returns every artist ordered by ID.
func (s *CatalogService) Artists() []domain.Artist {
	return s.artists.Artists()
}

// Artist returns one artist.
func (s *CatalogService) Artist(id int) (domain.Artist, error) {
	a, ok := s.artists.ArtistByID(id)
	if !ok {
		return domain.Artist{}, domain.ErrArtistNotFound
	}
	return a, nil
}

// Tracks returns every track ordered by title.
func (s *CatalogService) Tracks(ctx context.Context) ([]domain.Track, error) {
	return s.store.All(ctx)
}

// Track returns one track.
func (s *CatalogService) Track(ctx context.Context, id int64) (*domain.Track, error) {
	return s.store.Get(ctx, id)
}

// Artwork returns the exact embedded artwork bytes of a track.
func (s *CatalogService) Artwork(ctx context.Context, id int64) ([]byte, error) {
	track, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !track.HasArtwork() {
		return nil, domain.ErrNoArtwork
	}
	return track.Artwork, nil
}

// TracksByArtist returns the tracks credited to name, ordered by title.
// Matching ignores case.
func (s *CatalogService) TracksByArtist(ctx context.Context, name string) ([]domain.Track, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Track, 0)
	for _, t := range all {
		if strings.EqualFold(t.ArtistName, name) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ObserveTracks returns a live view of the catalog ordered by title.
//
// The current snapshot is delivered immediately and a fresh one after every
// catalog write. A slow consumer only ever sees the latest snapshot. The
// channel is closed once ctx ends.
func (s *CatalogService) ObserveTracks(ctx context.Context) (<-chan []domain.Track, error) {
	if s.bus == nil {
		return nil, domain.NewServiceError("catalog", "observe", "no event bus configured", nil)
	}

	w := &trackWatch{ch: make(chan []domain.Track, 1)}

	// Subscribe before the first read so no write can fall between them
	id := s.bus.Subscribe(domain.EventCatalogChanged, func(domain.Event) {
		s.refresh(ctx, w)
	})

	if err := s.refresh(ctx, w); err != nil {
		s.bus.Unsubscribe(id)
		w.close()
		return nil, err
	}

	go func() {
		<-ctx.Done()
		s.bus.Unsubscribe(id)
		w.close()
	}()

	return w.ch, nil
}

// refresh reads and offers under the watch lock, so the last offer always
// carries the most recent read.
func (s *CatalogService) refresh(ctx context.Context, w *trackWatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	tracks, err := s.store.All(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("catalog snapshot failed", slog.String("error", err.Error()))
		}
		return err
	}

	// Replace an unread snapshot; the buffer holds one, so the send never blocks
	select {
	case <-w.ch:
	default:
	}
	w.ch <- tracks
	return nil
}

type trackWatch struct {
	mu     sync.Mutex
	ch     chan []domain.Track
	closed bool
}

func (w *trackWatch) close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}
