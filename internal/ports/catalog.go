// Package ports define repository and reader interfaces for the track catalog.
// These interfaces allow swapping the persistence mechanism and the tag parser.
package ports

import (
	"context"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

// TrackStore is the persistent keyed collection of seeded tracks.
//
// Thread-safety: Implementations must be thread-safe. Reads may run concurrently
// with each other and with the single seeding write.
type TrackStore interface {
	// Count returns the number of stored tracks.
	Count(ctx context.Context) (int64, error)

	// InsertAll writes the whole batch atomically.
	// A record whose ID already exists replaces the stored one.
	// On success the store publishes domain.CatalogChangedEvent.
	InsertAll(ctx context.Context, tracks []domain.Track) error

	// All returns every track ordered by title, ties broken by ID.
	All(ctx context.Context) ([]domain.Track, error)

	// Get returns a single track.
	// If the track doesn't exist, returns domain.ErrTrackNotFound.
	Get(ctx context.Context, id int64) (*domain.Track, error)
}

// MetadataReader extracts tags from bundled audio assets.
//
// Implementations must release any file handle before Extract returns,
// on both success and failure paths.
type MetadataReader interface {
	// Extract reads title, album and embedded artwork from the asset.
	// Missing fields are returned empty; an unreadable asset returns an error
	// alongside whatever could be read.
	Extract(ctx context.Context, ref domain.AssetRef) (domain.AssetMetadata, error)
}

// ArtistCatalog is the static artist and binding table.
type ArtistCatalog interface {
	// Artists returns every artist ordered by ID.
	Artists() []domain.Artist

	// ArtistByID looks up one artist; ok is false for an unknown ID.
	ArtistByID(id int) (artist domain.Artist, ok bool)

	// Bindings returns the ordered asset-to-artist mapping used for seeding.
	Bindings() []domain.AssetBinding
}
