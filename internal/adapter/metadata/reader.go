// Package metadata extracts tags and embedded artwork from bundled audio assets.
package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

// maxBufferedAsset bounds how much of a non-seekable asset is read into memory.
const maxBufferedAsset = 64 << 20

// TagReader implements ports.MetadataReader over an fs.FS using dhowden/tag.
// It understands ID3v1/v2, MP4, FLAC and OGG tags.
type TagReader struct {
	logger *slog.Logger
	assets fs.FS
}

// NewTagReader creates a reader rooted at assets.
func NewTagReader(logger *slog.Logger, assets fs.FS) *TagReader {
	return &TagReader{
		logger: logger,
		assets: assets,
	}
}

// Extract reads title, album and artwork from ref.
// The asset handle is closed before Extract returns.
func (r *TagReader) Extract(ctx context.Context, ref domain.AssetRef) (domain.AssetMetadata, error) {
	if err := ctx.Err(); err != nil {
		return domain.AssetMetadata{}, err
	}

	name := strings.TrimPrefix(ref.String(), "/")
	if !fs.ValidPath(name) {
		return domain.AssetMetadata{}, fmt.Errorf("%w: invalid path %q", domain.ErrAssetNotFound, ref)
	}

	file, err := r.assets.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.AssetMetadata{}, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, ref)
		}
		return domain.AssetMetadata{}, fmt.Errorf("open asset %s: %w", ref, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			r.logger.Warn("failed to close asset", slog.String("asset", ref.String()), slog.Any("error", cerr))
		}
	}()

	rs, err := seekable(file)
	if err != nil {
		return domain.AssetMetadata{}, fmt.Errorf("read asset %s: %w", ref, err)
	}

	tags, err := tag.ReadFrom(rs)
	if err != nil || tags == nil {
		return domain.AssetMetadata{}, fmt.Errorf("%w: %s: %v", domain.ErrMetadataUnavailable, ref, err)
	}

	meta := domain.AssetMetadata{
		Title: strings.TrimSpace(tags.Title()),
		Album: strings.TrimSpace(tags.Album()),
	}

	// Artwork is kept byte-for-byte as embedded
	if picture := tags.Picture(); picture != nil && len(picture.Data) > 0 {
		meta.Artwork = picture.Data
	}

	r.logger.Debug("asset metadata extracted",
		slog.String("asset", ref.String()),
		slog.String("format", string(tags.Format())),
		slog.Bool("artwork", meta.Artwork != nil))

	return meta, nil
}

// seekable returns file itself when it supports seeking, otherwise a bounded
// in-memory copy. dhowden/tag needs an io.ReadSeeker.
func seekable(file fs.File) (io.ReadSeeker, error) {
	if rs, ok := file.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBufferedAsset))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

var _ ports.MetadataReader = (*TagReader)(nil)
