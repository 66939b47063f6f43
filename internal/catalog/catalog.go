// Package catalog holds the static artist profiles and the ordered mapping from
// bundled audio assets to the artists who perform them.
package catalog

import (
	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
)

var artists = []domain.Artist{
	{
		ID:       1,
		Name:     "Aurora Vale",
		Bio:      "Synth-pop songwriter recording late-night drives and neon city ballads from a converted garage studio.",
		ImageRef: "images/aurora_vale.jpg",
	},
	{
		ID:       2,
		Name:     "The Lantern Collective",
		Bio:      "A seven-piece folk ensemble built around fiddle, banjo and close three-part harmonies.",
		ImageRef: "images/lantern_collective.jpg",
	},
	{
		ID:       3,
		Name:     "Kofi Mensah",
		Bio:      "Highlife guitarist blending Accra palm-wine rhythms with modern jazz voicings.",
		ImageRef: "images/kofi_mensah.jpg",
	},
	{
		ID:       4,
		Name:     "Nightshift Radio",
		Bio:      "Instrumental lo-fi duo producing beats from field recordings and tape-warped samples.",
		ImageRef: "images/nightshift_radio.jpg",
	},
}

var bindings = []domain.AssetBinding{
	{Asset: "audio/midnight_drive.mp3", ArtistID: 1},
	{Asset: "audio/glass_skyline.mp3", ArtistID: 1},
	{Asset: "audio/river_hymn.mp3", ArtistID: 2},
	{Asset: "audio/copper_kettle.mp3", ArtistID: 2},
	{Asset: "audio/palm_wine_sunday.mp3", ArtistID: 3},
	{Asset: "audio/harmattan.mp3", ArtistID: 3},
	{Asset: "audio/rain_on_tin.mp3", ArtistID: 4},
	{Asset: "audio/last_train_home.mp3", ArtistID: 4},
}

// Static is the catalog compiled into the binary.
type Static struct {
	artists  []domain.Artist
	bindings []domain.AssetBinding
}

// NewStatic returns the built-in catalog.
func NewStatic() *Static {
	return &Static{artists: artists, bindings: bindings}
}

// New returns a catalog over the given artists and bindings.
// Tests use it to seed from fixture assets.
func New(artists []domain.Artist, bindings []domain.AssetBinding) *Static {
	return &Static{artists: artists, bindings: bindings}
}

// Artists returns a copy of the artist list.
func (s *Static) Artists() []domain.Artist {
	out := make([]domain.Artist, len(s.artists))
	copy(out, s.artists)
	return out
}

// Bindings returns a copy of the ordered asset-to-artist mapping.
func (s *Static) Bindings() []domain.AssetBinding {
	out := make([]domain.AssetBinding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// ArtistByID looks up an artist.
func (s *Static) ArtistByID(id int) (domain.Artist, bool) {
	for _, a := range s.artists {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Artist{}, false
}

var _ ports.ArtistCatalog = (*Static)(nil)
