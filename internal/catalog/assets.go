package catalog

import (
	"embed"
	"io/fs"
)

//go:embed assets
var bundled embed.FS

// Assets returns the audio and artist images compiled into the binary, rooted
// so that binding refs such as "audio/harmattan.mp3" resolve directly.
func Assets() fs.FS {
	sub, err := fs.Sub(bundled, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
