// Package service provides business logic for the tunebox application.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// CatalogSeeder populates the track store from the bundled assets at most once
// per process, and exactly once on an empty store.
//
// Callers are serialised by a weight-1 semaphore held for the whole check and
// write, so concurrent callers observe a single seeding attempt.
type CatalogSeeder struct {
	// Dependencies (injected)
	logger  *slog.Logger
	store   ports.TrackStore
	reader  ports.MetadataReader
	catalog ports.ArtistCatalog
	bus     ports.EventBus

	lock *semaphore.Weighted

	// seeded is only written while lock is held
	seeded atomic.Bool
}

// NewCatalogSeeder creates a seeder. bus may be nil.
func NewCatalogSeeder(
	logger *slog.Logger,
	store ports.TrackStore,
	reader ports.MetadataReader,
	catalog ports.ArtistCatalog,
	bus ports.EventBus,
) *CatalogSeeder {
	return &CatalogSeeder{
		logger:  logger.With(slog.String("service", "seeder")),
		store:   store,
		reader:  reader,
		catalog: catalog,
		bus:     bus,
		lock:    semaphore.NewWeighted(1),
	}
}

// IsSeeded reports whether a seeding pass has completed in this process.
func (s *CatalogSeeder) IsSeeded() bool {
	return s.seeded.Load()
}

// EnsureSeeded seeds the track store if it is empty.
//
// A caller whose context ends while waiting for the lock returns ctx.Err()
// without touching the store. If the batch write fails the returned error
// matches domain.ErrSeedFailed, the seeded flag stays unset and the next call
// retries the full batch.
func (s *CatalogSeeder) EnsureSeeded(ctx context.Context) error {
	if err := s.lock.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.lock.Release(1)

	if s.seeded.Load() {
		return nil
	}

	count, err := s.store.Count(ctx)
	if err != nil {
		// Fail open: the insert replaces on conflict, so seeding a populated
		// store rewrites identical rows.
		s.logger.Warn("track count failed, assuming empty store", slog.String("error", err.Error()))
		count = 0
	}

	inserted := 0
	if count == 0 {
		batch, err := s.buildBatch(ctx)
		if err != nil {
			return err
		}

		if len(batch) > 0 {
			if err := s.store.InsertAll(ctx, batch); err != nil {
				s.logger.Error("catalog batch insert failed",
					slog.Int("batch", len(batch)),
					slog.String("error", err.Error()))
				return &domain.SeedError{Batch: len(batch), Err: err}
			}
		}
		inserted = len(batch)
		s.logger.Info("catalog seeded", slog.Int("tracks", inserted))
	} else {
		s.logger.Debug("catalog already populated", slog.Int64("tracks", count))
	}

	s.seeded.Store(true)

	if s.bus != nil {
		s.bus.Publish(domain.NewCatalogSeededEvent(inserted, count != 0))
	}
	return nil
}

// buildBatch reads every bound asset in order and assigns IDs from 1.
// Extraction failures degrade to placeholders; only cancellation aborts.
func (s *CatalogSeeder) buildBatch(ctx context.Context) ([]domain.Track, error) {
	names := make(map[int]string)
	for _, a := range s.catalog.Artists() {
		names[a.ID] = a.Name
	}

	bindings := s.catalog.Bindings()
	batch := make([]domain.Track, 0, len(bindings))

	for i, b := range bindings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		meta, err := s.reader.Extract(ctx, b.Asset)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn("metadata extraction failed, using placeholders",
				slog.String("asset", b.Asset.String()),
				slog.String("error", err.Error()))
			meta = domain.AssetMetadata{}
		}

		artist, ok := names[b.ArtistID]
		if !ok {
			s.logger.Warn("binding references unknown artist",
				slog.String("asset", b.Asset.String()),
				slog.Int("artist_id", b.ArtistID))
			artist = domain.PlaceholderArtist
		}

		batch = append(batch, domain.Track{
			ID:         int64(i + 1),
			Title:      orPlaceholder(meta.Title, domain.PlaceholderTitle),
			ArtistName: artist,
			AlbumName:  orPlaceholder(meta.Album, domain.PlaceholderAlbum),
			AssetRef:   b.Asset,
			Artwork:    meta.Artwork,
		})
	}

	return batch, nil
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
