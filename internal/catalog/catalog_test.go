package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_BindingsReferenceKnownArtists(t *testing.T) {
	c := NewStatic()

	require.NotEmpty(t, c.Bindings())
	for _, b := range c.Bindings() {
		_, ok := c.ArtistByID(b.ArtistID)
		assert.True(t, ok, "binding %s references unknown artist %d", b.Asset, b.ArtistID)
	}
}

func TestStatic_AssetsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, b := range NewStatic().Bindings() {
		assert.False(t, seen[b.Asset.String()], "duplicate asset %s", b.Asset)
		seen[b.Asset.String()] = true
	}
}

func TestStatic_ArtistIDsAreUniqueAndOrdered(t *testing.T) {
	list := NewStatic().Artists()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestStatic_ReturnsCopies(t *testing.T) {
	c := NewStatic()

	a := c.Artists()
	a[0].Name = "changed"
	assert.NotEqual(t, "changed", c.Artists()[0].Name)

	b := c.Bindings()
	b[0].ArtistID = 99
	assert.NotEqual(t, 99, c.Bindings()[0].ArtistID)
}

func TestStatic_ArtistByID(t *testing.T) {
	c := NewStatic()

	a, ok := c.ArtistByID(3)
	require.True(t, ok)
	assert.Equal(t, "Kofi Mensah", a.Name)

	_, ok = c.ArtistByID(42)
	assert.False(t, ok)
}
