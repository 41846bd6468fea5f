// Package codec adapts container formats to and from go-audio integer
// buffers. Decoders accept whole in-memory files; encoders write whole
// tracks to an io.Writer.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-audio/audio"
)

// Container identifies an audio file format by its magic bytes.
type Container int

const (
	// ContainerUnknown is returned when no signature matches.
	ContainerUnknown Container = iota
	// ContainerWAV is RIFF/WAVE.
	ContainerWAV
	// ContainerMP3 is MPEG-1/2 Layer III, with or without an ID3v2 tag.
	ContainerMP3
	// ContainerOgg is an Ogg bitstream (Vorbis/Opus/FLAC).
	ContainerOgg
	// ContainerFLAC is native FLAC.
	ContainerFLAC
)

// String returns the conventional file extension.
func (c Container) String() string {
	switch c {
	case ContainerWAV:
		return "wav"
	case ContainerMP3:
		return "mp3"
	case ContainerOgg:
		return "ogg"
	case ContainerFLAC:
		return "flac"
	default:
		return "unknown"
	}
}

// Sentinel errors for decode failures.
var (
	// ErrUnsupportedFormat means the data is recognizably audio but cannot
	// be decoded, or is not recognized at all.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrInvalidData means the container is malformed.
	ErrInvalidData = errors.New("invalid audio data")
)

const (
	minSniffLen = 4
	mp3SyncMask = 0xE0
)

// Sniff identifies the container from its leading bytes.
func Sniff(data []byte) Container {
	if len(data) < minSniffLen {
		return ContainerUnknown
	}
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return ContainerWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return ContainerMP3
	case data[0] == 0xFF && data[1]&mp3SyncMask == mp3SyncMask:
		return ContainerMP3
	case bytes.HasPrefix(data, []byte("OggS")):
		return ContainerOgg
	case bytes.HasPrefix(data, []byte("fLaC")):
		return ContainerFLAC
	default:
		return ContainerUnknown
	}
}

// Decode sniffs data and decodes it into interleaved integer PCM.
func Decode(data []byte) (*audio.IntBuffer, error) {
	switch c := Sniff(data); c {
	case ContainerWAV:
		return DecodeWAV(data)
	case ContainerMP3:
		return DecodeMP3(data)
	case ContainerUnknown:
		return nil, fmt.Errorf("%w: unrecognized signature", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %s decoding is not available", ErrUnsupportedFormat, c)
	}
}

// Frames returns the number of whole frames in buf.
func Frames(buf *audio.IntBuffer) int {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels == 0 {
		return 0
	}
	return len(buf.Data) / buf.Format.NumChannels
}
