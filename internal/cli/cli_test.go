package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/tunebox/internal/app"
	"github.com/tejashwikalptaru/tunebox/internal/logger"
	"github.com/tejashwikalptaru/tunebox/internal/testutil"
)

// writeConfig lays out an asset directory with two tagged files and a config
// using the in-memory drivers.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	audio := filepath.Join(dir, "assets", "audio")
	require.NoError(t, os.MkdirAll(audio, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(audio, "glass_skyline.mp3"),
		testutil.BuildID3v23(testutil.ID3Tag{Title: "Glass Skyline", Album: "Neon Hours"}), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(audio, "rain_on_tin.mp3"),
		testutil.BuildID3v23(testutil.ID3Tag{Title: "Rain On Tin"}), 0o644))

	cfg := `
assets:
  dir: ` + filepath.Join(dir, "assets") + `
store:
  driver: memory
preferences:
  driver: memory
player:
  disable_media_session: true
`
	path := filepath.Join(dir, "tunebox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(app.WithLogger(logger.NewTestLogger()))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedCommand(t *testing.T) {
	out, err := run(t, "seed", "--config", writeConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "catalog ready: 8 tracks\n", out)
}

func TestTracksCommand_JSON(t *testing.T) {
	out, err := run(t, "tracks", "--json", "--config", writeConfig(t))
	require.NoError(t, err)

	var rows []trackRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 8)

	titles := make(map[string]trackRow, len(rows))
	for _, r := range rows {
		titles[r.Title] = r
	}
	assert.Equal(t, "Neon Hours", titles["Glass Skyline"].Album)
	assert.Equal(t, "Aurora Vale", titles["Glass Skyline"].Artist)
	assert.Equal(t, "Nightshift Radio", titles["Rain On Tin"].Artist)
}

func TestTracksCommand_ArtistFilter(t *testing.T) {
	out, err := run(t, "tracks", "--artist", "aurora vale", "--config", writeConfig(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Glass Skyline")
	assert.NotContains(t, out, "Rain On Tin")
	assert.Contains(t, out, "ID")
}

func TestArtistsCommand(t *testing.T) {
	out, err := run(t, "artists", "--config", writeConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Kofi Mensah")
	assert.Contains(t, out, "The Lantern Collective")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tunebox "+app.Version)

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info app.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, app.Version, info.Version)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "seed", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
