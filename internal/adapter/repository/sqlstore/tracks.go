package sqlstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

const insertBatchSize = 100

type trackRecord struct {
	ID         int64  `gorm:"primaryKey;autoIncrement:false"`
	Title      string `gorm:"size:255;not null;index"`
	ArtistName string `gorm:"size:255;not null;index"`
	AlbumName  string `gorm:"size:255;not null"`
	AssetRef   string `gorm:"size:512;not null"`
	Artwork    []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (trackRecord) TableName() string {
	return "tracks"
}

func toRecord(t domain.Track) trackRecord {
	return trackRecord{
		ID:         t.ID,
		Title:      t.Title,
		ArtistName: t.ArtistName,
		AlbumName:  t.AlbumName,
		AssetRef:   string(t.AssetRef),
		Artwork:    t.Artwork,
	}
}

func (r trackRecord) toDomain() domain.Track {
	return domain.Track{
		ID:         r.ID,
		Title:      r.Title,
		ArtistName: r.ArtistName,
		AlbumName:  r.AlbumName,
		AssetRef:   domain.AssetRef(r.AssetRef),
		Artwork:    r.Artwork,
	}
}

// TrackStore implements ports.TrackStore on a gorm connection.
type TrackStore struct {
	db     *gorm.DB
	bus    ports.EventBus
	logger *slog.Logger
}

// NewTrackStore creates a track store. bus may be nil.
func NewTrackStore(db *gorm.DB, bus ports.EventBus, logger *slog.Logger) *TrackStore {
	return &TrackStore{
		db:     db,
		bus:    bus,
		logger: logger.With(slog.String("store", "tracks")),
	}
}

// Count returns the number of stored tracks.
func (s *TrackStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&trackRecord{}).Count(&n).Error; err != nil {
		return 0, domain.NewRepositoryError("count", "tracks", "count failed", err)
	}
	return n, nil
}

// InsertAll writes the batch in one transaction, replacing rows with the same ID.
func (s *TrackStore) InsertAll(ctx context.Context, tracks []domain.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	records := make([]trackRecord, len(tracks))
	for i, t := range tracks {
		records[i] = toRecord(t)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).
			CreateInBatches(&records, insertBatchSize).Error
	})
	if err != nil {
		return domain.NewRepositoryError("insert_all", "tracks", "bulk insert failed", err)
	}

	s.logger.Debug("tracks written", slog.Int("count", len(records)))
	if s.bus != nil {
		s.bus.Publish(domain.NewCatalogChangedEvent(len(records)))
	}
	return nil
}

// All returns every track ordered by title, then ID.
func (s *TrackStore) All(ctx context.Context) ([]domain.Track, error) {
	var records []trackRecord
	err := s.db.WithContext(ctx).
		Order("title ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, domain.NewRepositoryError("all", "tracks", "query failed", err)
	}

	out := make([]domain.Track, len(records))
	for i, r := range records {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Get returns a track by ID.
func (s *TrackStore) Get(ctx context.Context, id int64) (*domain.Track, error) {
	var record trackRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTrackNotFound
		}
		return nil, domain.NewRepositoryError("get", "tracks", "query failed", err)
	}

	t := record.toDomain()
	return &t, nil
}

var _ ports.TrackStore = (*TrackStore)(nil)
