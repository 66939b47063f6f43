package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

func TestPreferenceStore_SetGetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	store := NewPreferenceStore(rdb, "")

	_, ok, err := store.Get(ctx, domain.PrefShuffle)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, domain.PrefShuffle, "true"))
	v, ok, err := store.Get(ctx, domain.PrefShuffle)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	// stored as a field of the default hash
	assert.Equal(t, "true", mr.HGet(DefaultKey, string(domain.PrefShuffle)))

	require.NoError(t, store.Delete(ctx, domain.PrefShuffle))
	_, ok, err = store.Get(ctx, domain.PrefShuffle)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreferenceStore_CustomKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewPreferenceStore(rdb, "user:7:prefs")
	require.NoError(t, store.Set(context.Background(), domain.PrefRepeatMode, "one"))

	assert.Equal(t, "one", mr.HGet("user:7:prefs", string(domain.PrefRepeatMode)))
	assert.False(t, mr.Exists(DefaultKey))
}

func TestPreferenceStore_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()

	store := NewPreferenceStore(rdb, "")
	mr.Close()

	err := store.Set(context.Background(), domain.PrefShuffle, "true")
	var repoErr *domain.RepositoryError
	assert.ErrorAs(t, err, &repoErr)

	_, _, err = store.Get(context.Background(), domain.PrefShuffle)
	assert.Error(t, err)
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := Dial(context.Background(), Options{Addr: mr.Addr(), Key: "k"})
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), domain.PrefLastPosition, "42"))
	assert.Equal(t, "42", mr.HGet("k", string(domain.PrefLastPosition)))
	assert.NoError(t, store.Close())
}

func TestDial_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Dial(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
}
