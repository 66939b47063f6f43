//go:build !linux

package session

import (
	"errors"
	"log/slog"

	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// ErrUnsupported is returned on platforms without a media session adapter.
var ErrUnsupported = errors.New("media session not supported on this platform")

// NewSession always fails off Linux; callers fall back to NewNoOp.
func NewSession(_ *slog.Logger, _ string) (ports.MediaSession, error) {
	return nil, ErrUnsupported
}
