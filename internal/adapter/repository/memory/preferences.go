package memory

import (
	"context"
	"sync"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// PreferenceStore implements ports.PreferenceStore with a map.
//
// Thread-safe: All operations protected by sync.RWMutex.
type PreferenceStore struct {
	values map[domain.PreferenceKey]string
	mu     sync.RWMutex
}

// NewPreferenceStore creates an empty preference store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		values: make(map[domain.PreferenceKey]string),
	}
}

// Get returns the stored value and whether it exists.
func (s *PreferenceStore) Get(ctx context.Context, key domain.PreferenceKey) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores a value.
func (s *PreferenceStore) Set(ctx context.Context, key domain.PreferenceKey, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes a key.
func (s *PreferenceStore) Delete(ctx context.Context, key domain.PreferenceKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Verify interface implementation
var _ ports.PreferenceStore = (*PreferenceStore)(nil)
