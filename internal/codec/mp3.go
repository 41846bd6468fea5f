package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/hajimehoshi/go-mp3"
)

// The MP3 decoder always produces 16-bit little-endian stereo.
const (
	mp3Channels      = 2
	mp3BitDepth      = 16
	mp3BytesPerFrame = 4
)

// DecodeMP3 decodes an MP3 file held in memory.
func DecodeMP3(data []byte) (*audio.IntBuffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid MP3 stream: %v", ErrInvalidData, err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("%w: reading MP3 frames: %v", ErrInvalidData, err)
	}
	pcm = pcm[:len(pcm)-len(pcm)%mp3BytesPerFrame]
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: MP3 stream has no audio frames", ErrInvalidData)
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: mp3Channels, SampleRate: decoder.SampleRate()},
		Data:           samples,
		SourceBitDepth: mp3BitDepth,
	}, nil
}
