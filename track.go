package remix

import (
	"fmt"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/tphakala/simd/f64"

	"github.com/tphakala/go-audio-remix/internal/codec"
)

// Track is decoded audio in container form: interleaved integer PCM.
type Track struct {
	Data       []int
	Channels   int
	SampleRate int
	BitDepth   int
}

// Frames returns the number of sample frames.
func (t Track) Frames() int {
	if t.Channels <= 0 {
		return 0
	}
	return len(t.Data) / t.Channels
}

// Duration returns the playback length.
func (t Track) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(t.Frames()) / float64(t.SampleRate) * float64(time.Second))
}

// IsCanonical reports whether t is 16-bit stereo at 44.1kHz.
func (t Track) IsCanonical() bool {
	return t.Channels == CanonicalChannels &&
		t.SampleRate == CanonicalSampleRate &&
		t.BitDepth == CanonicalBitDepth
}

// Validate checks the sample layout.
func (t Track) Validate() error {
	switch {
	case t.Channels < 1 || t.Channels > maxChannels:
		return fmt.Errorf("%w: channel count %d outside [1, %d]", ErrDecode, t.Channels, maxChannels)
	case t.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrDecode, t.SampleRate)
	case t.BitDepth < 8 || t.BitDepth > 32:
		return fmt.Errorf("%w: bit depth %d outside [8, 32]", ErrDecode, t.BitDepth)
	case len(t.Data)%t.Channels != 0:
		return fmt.Errorf("%w: %d samples is not a whole number of %d-channel frames", ErrDecode, len(t.Data), t.Channels)
	}
	return nil
}

// Buffer returns t as a go-audio buffer sharing the same sample slice.
func (t Track) Buffer() *audio.IntBuffer {
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: t.Channels, SampleRate: t.SampleRate},
		Data:           t.Data,
		SourceBitDepth: t.BitDepth,
	}
}

// TrackFromBuffer wraps a go-audio buffer without copying.
func TrackFromBuffer(buf *audio.IntBuffer) Track {
	if buf == nil || buf.Format == nil {
		return Track{}
	}
	return Track{
		Data:       buf.Data,
		Channels:   buf.Format.NumChannels,
		SampleRate: buf.Format.SampleRate,
		BitDepth:   buf.SourceBitDepth,
	}
}

// DecodeTrack decodes a WAV or MP3 file held in memory.
func DecodeTrack(data []byte) (Track, error) {
	buf, err := codec.Decode(data)
	if err != nil {
		return Track{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	t := TrackFromBuffer(buf)
	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	return t, nil
}

// Matrix is audio in sample-matrix form: one float64 slice per channel,
// nominally within [-1, 1]. All channels have the same length.
type Matrix struct {
	channels [][]float64
}

// NewMatrix allocates a silent matrix.
func NewMatrix(channels, frames int) *Matrix {
	m := &Matrix{channels: make([][]float64, channels)}
	for ch := range m.channels {
		m.channels[ch] = make([]float64, frames)
	}
	return m
}

// MatrixFromChannels wraps planar channel data. It panics if the channels
// differ in length.
func MatrixFromChannels(channels ...[]float64) *Matrix {
	for _, c := range channels {
		if len(c) != len(channels[0]) {
			panic("remix: matrix channels differ in length")
		}
	}
	return &Matrix{channels: channels}
}

// Channels returns the channel count.
func (m *Matrix) Channels() int {
	return len(m.channels)
}

// Frames returns the frame count.
func (m *Matrix) Frames() int {
	if len(m.channels) == 0 {
		return 0
	}
	return len(m.channels[0])
}

// At returns the sample at the given frame and channel.
func (m *Matrix) At(frame, ch int) float64 {
	return m.channels[ch][frame]
}

// Channel returns the backing slice for one channel.
func (m *Matrix) Channel(ch int) []float64 {
	return m.channels[ch]
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{channels: make([][]float64, len(m.channels))}
	for ch, c := range m.channels {
		out.channels[ch] = append([]float64(nil), c...)
	}
	return out
}

// ToSamples converts a track to a matrix by dividing every sample by
// 2^(bitDepth-1).
func ToSamples(t Track) *Matrix {
	frames := t.Frames()
	m := NewMatrix(t.Channels, frames)
	scale := 1 / math.Ldexp(1, t.BitDepth-1)
	for i := range frames {
		base := i * t.Channels
		for ch := range t.Channels {
			m.channels[ch][i] = float64(t.Data[base+ch]) * scale
		}
	}
	return m
}

// FromSamples converts a matrix to a 16-bit track at the given rate.
// Samples are scaled by 32768, clipped to the 16-bit range and rounded.
// Clipping is silent.
func FromSamples(m *Matrix, sampleRate int) Track {
	channels := m.Channels()
	frames := m.Frames()

	scaled := make([][]float64, channels)
	for ch, c := range m.channels {
		s := make([]float64, frames)
		for i, v := range c {
			s[i] = math.Round(min(max(v*fullScale16, minSample16), maxSample16))
		}
		scaled[ch] = s
	}

	var interleaved []float64
	if channels == stereoChannels {
		interleaved = make([]float64, frames*stereoChannels)
		f64.Interleave2(interleaved, scaled[0], scaled[1])
	} else {
		interleaved = make([]float64, frames*channels)
		for ch, s := range scaled {
			for i, v := range s {
				interleaved[i*channels+ch] = v
			}
		}
	}

	data := make([]int, len(interleaved))
	for i, v := range interleaved {
		data[i] = int(v)
	}
	return Track{Data: data, Channels: channels, SampleRate: sampleRate, BitDepth: CanonicalBitDepth}
}
