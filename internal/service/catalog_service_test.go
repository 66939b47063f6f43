package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunebox/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tunebox/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/tunebox/internal/catalog"
	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/logger"
	"github.com/tejashwikalptaru/tunebox/internal/testutil"
)

func newTestCatalogService(t *testing.T) (*CatalogService, *memory.TrackStore) {
	t.Helper()
	bus := eventbus.NewSyncEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	store := memory.NewTrackStore(bus)
	return NewCatalogService(logger.NewTestLogger(), store, testCatalog(), bus), store
}

func catalogTracks() []domain.Track {
	return []domain.Track{
		{ID: 1, Title: "Midnight", ArtistName: "Aurora Vale", Artwork: []byte{0xff, 0xd8, 0xff}},
		{ID: 2, Title: "Harmattan", ArtistName: "Kofi Mensah"},
		{ID: 3, Title: "Glass Skyline", ArtistName: "Aurora Vale"},
	}
}

func receive(t *testing.T, ch <-chan []domain.Track) []domain.Track {
	t.Helper()
	select {
	case tracks, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return tracks
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestCatalogService_Artists(t *testing.T) {
	svc, _ := newTestCatalogService(t)

	assert.Len(t, svc.Artists(), 2)

	a, err := svc.Artist(2)
	require.NoError(t, err)
	assert.Equal(t, "Kofi Mensah", a.Name)

	_, err = svc.Artist(99)
	assert.ErrorIs(t, err, domain.ErrArtistNotFound)
}

// lookupCountingCatalog records ArtistByID calls on top of a static table.
type lookupCountingCatalog struct {
	*catalog.Static
	lookups []int
}

func (c *lookupCountingCatalog) ArtistByID(id int) (domain.Artist, bool) {
	c.lookups = append(c.lookups, id)
	return c.Static.ArtistByID(id)
}

func TestCatalogService_ArtistUsesCatalogLookup(t *testing.T) {
	bus := eventbus.NewSyncEventBus()
	defer bus.Close()

	artists := &lookupCountingCatalog{Static: testCatalog()}
	svc := NewCatalogService(logger.NewTestLogger(), memory.NewTrackStore(bus), artists, bus)

	a, err := svc.Artist(1)
	require.NoError(t, err)
	assert.Equal(t, "Aurora Vale", a.Name)

	_, err = svc.Artist(7)
	assert.ErrorIs(t, err, domain.ErrArtistNotFound)

	assert.Equal(t, []int{1, 7}, artists.lookups)
}

func TestCatalogService_TracksAndLookup(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestCatalogService(t)
	require.NoError(t, store.InsertAll(ctx, catalogTracks()))

	tracks, err := svc.Tracks(ctx)
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, "Glass Skyline", tracks[0].Title)

	track, err := svc.Track(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Harmattan", track.Title)

	_, err = svc.Track(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
}

func TestCatalogService_Artwork(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestCatalogService(t)
	require.NoError(t, store.InsertAll(ctx, catalogTracks()))

	art, err := svc.Artwork(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, art)

	_, err = svc.Artwork(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNoArtwork)

	_, err = svc.Artwork(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrTrackNotFound)
}

func TestCatalogService_TracksByArtist(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestCatalogService(t)
	require.NoError(t, store.InsertAll(ctx, catalogTracks()))

	tracks, err := svc.TracksByArtist(ctx, "aurora vale")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Glass Skyline", tracks[0].Title)
	assert.Equal(t, "Midnight", tracks[1].Title)

	none, err := svc.TracksByArtist(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogService_ObserveTracks(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	ctx, cancel := context.WithCancel(context.Background())
	svc, store := newTestCatalogService(t)

	ch, err := svc.ObserveTracks(ctx)
	require.NoError(t, err)

	assert.Empty(t, receive(t, ch), "initial snapshot of an empty store")

	require.NoError(t, store.InsertAll(context.Background(), catalogTracks()))
	snap := receive(t, ch)
	require.Len(t, snap, 3)
	assert.Equal(t, "Glass Skyline", snap[0].Title)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestCatalogService_ObserveTracksKeepsLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc, store := newTestCatalogService(t)

	ch, err := svc.ObserveTracks(ctx)
	require.NoError(t, err)

	// Nobody reads while three writes land
	for _, tr := range catalogTracks() {
		require.NoError(t, store.InsertAll(context.Background(), []domain.Track{tr}))
	}

	snap := receive(t, ch)
	assert.Len(t, snap, 3, "only the newest snapshot is kept")

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra snapshot: %v", extra)
	default:
	}
}

func TestCatalogService_ObserveSeesSeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := eventbus.NewSyncEventBus()
	defer bus.Close()
	store := memory.NewTrackStore(bus)
	svc := NewCatalogService(logger.NewTestLogger(), store, testCatalog(), bus)
	seeder := NewCatalogSeeder(logger.NewTestLogger(), store, testReader(), testCatalog(), bus)

	ch, err := svc.ObserveTracks(ctx)
	require.NoError(t, err)
	assert.Empty(t, receive(t, ch))

	require.NoError(t, seeder.EnsureSeeded(ctx))
	assert.Len(t, receive(t, ch), 3)
}

func TestCatalogService_ObserveWithoutBus(t *testing.T) {
	svc := NewCatalogService(logger.NewTestLogger(), memory.NewTrackStore(nil), testCatalog(), nil)

	_, err := svc.ObserveTracks(context.Background())
	var svcErr *domain.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}
