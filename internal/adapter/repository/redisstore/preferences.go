// Package redisstore keeps preferences in a single Redis hash.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// DefaultKey is the hash used when none is configured.
const DefaultKey = "tunebox:preferences"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// PreferenceStore implements ports.PreferenceStore with HGET/HSET/HDEL on one hash.
type PreferenceStore struct {
	client *redis.Client
	key    string
	owned  bool
}

// Dial connects to Redis and verifies the connection with PING.
// The returned store owns the client and closes it in Close.
func Dial(ctx context.Context, opts Options) (*PreferenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	store := NewPreferenceStore(client, opts.Key)
	store.owned = true
	return store, nil
}

// NewPreferenceStore wraps an existing client. An empty key selects DefaultKey.
func NewPreferenceStore(client *redis.Client, key string) *PreferenceStore {
	if key == "" {
		key = DefaultKey
	}
	return &PreferenceStore{client: client, key: key}
}

// Get returns the stored value and whether it exists.
func (s *PreferenceStore) Get(ctx context.Context, key domain.PreferenceKey) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, string(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewRepositoryError("get", "preferences", string(key), err)
	}
	return v, true, nil
}

// Set stores a value.
func (s *PreferenceStore) Set(ctx context.Context, key domain.PreferenceKey, value string) error {
	if err := s.client.HSet(ctx, s.key, string(key), value).Err(); err != nil {
		return domain.NewRepositoryError("set", "preferences", string(key), err)
	}
	return nil
}

// Delete removes a key.
func (s *PreferenceStore) Delete(ctx context.Context, key domain.PreferenceKey) error {
	if err := s.client.HDel(ctx, s.key, string(key)).Err(); err != nil {
		return domain.NewRepositoryError("delete", "preferences", string(key), err)
	}
	return nil
}

// Close closes the client if this store created it.
func (s *PreferenceStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

var _ ports.PreferenceStore = (*PreferenceStore)(nil)
