// Package ports define the preference store interface.
package ports

import (
	"context"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

// PreferenceStore is a durable key-value store keyed by well-known string keys.
//
// Thread-safety: Implementations must be thread-safe.
type PreferenceStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key domain.PreferenceKey) (string, bool, error)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key domain.PreferenceKey, value string) error

	// Delete removes a key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key domain.PreferenceKey) error
}
