package testutil

import (
	"bytes"
	"encoding/binary"
)

// ID3Tag describes the frames written by BuildID3v23. Empty fields are omitted.
type ID3Tag struct {
	Title   string
	Album   string
	Artist  string
	Artwork []byte // written as a JPEG front cover
}

// BuildID3v23 returns a minimal ID3v2.3 tag followed by a few bytes of fake audio.
// It is enough for tag parsers to read the text frames and APIC payload.
func BuildID3v23(t ID3Tag) []byte {
	var frames bytes.Buffer
	writeTextFrame(&frames, "TIT2", t.Title)
	writeTextFrame(&frames, "TALB", t.Album)
	writeTextFrame(&frames, "TPE1", t.Artist)

	if len(t.Artwork) > 0 {
		var body bytes.Buffer
		body.WriteByte(0x00) // ISO-8859-1
		body.WriteString("image/jpeg")
		body.WriteByte(0x00)
		body.WriteByte(0x03) // front cover
		body.WriteByte(0x00) // empty description
		body.Write(t.Artwork)
		writeFrame(&frames, "APIC", body.Bytes())
	}

	// Padding terminates the frame list.
	frames.Write(make([]byte, 64))

	var out bytes.Buffer
	out.WriteString("ID3")
	out.Write([]byte{0x03, 0x00, 0x00})
	out.Write(syncsafe(frames.Len()))
	out.Write(frames.Bytes())
	out.Write([]byte{0xFF, 0xFB, 0x90, 0x64, 0x00, 0x00, 0x00, 0x00})
	return out.Bytes()
}

func writeTextFrame(buf *bytes.Buffer, id, value string) {
	if value == "" {
		return
	}
	writeFrame(buf, id, append([]byte{0x00}, value...))
}

func writeFrame(buf *bytes.Buffer, id string, body []byte) {
	buf.WriteString(id)
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(body)))
	buf.Write(size[:])
	buf.Write([]byte{0x00, 0x00})
	buf.Write(body)
}

func syncsafe(n int) []byte {
	return []byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}
}
