package catalog

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets_ShipEveryReferencedFile(t *testing.T) {
	assets := Assets()
	c := NewStatic()

	for _, b := range c.Bindings() {
		data, err := fs.ReadFile(assets, b.Asset.String())
		require.NoError(t, err, "binding %s is not bundled", b.Asset)
		assert.Equal(t, "ID3", string(data[:3]), "%s should carry an ID3v2 tag", b.Asset)
	}
	for _, a := range c.Artists() {
		data, err := fs.ReadFile(assets, a.ImageRef.String())
		require.NoError(t, err, "image for %s is not bundled", a.Name)
		assert.Equal(t, []byte{0xff, 0xd8}, data[:2])
	}
}
