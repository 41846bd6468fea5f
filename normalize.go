package remix

import (
	"fmt"

	"github.com/tphakala/go-audio-remix/internal/engine"
)

// Normalize converts t to the canonical format: stereo, 44.1kHz, 16-bit.
//
// Mono is duplicated to both channels. Wider layouts are folded down by
// averaging even-indexed channels into the left output and odd-indexed
// channels into the right. A canonical track is returned unchanged.
func Normalize(t Track, quality Quality) (Track, error) {
	if err := t.Validate(); err != nil {
		return Track{}, err
	}
	if t.IsCanonical() {
		return t, nil
	}

	m := toStereo(ToSamples(t))
	if t.SampleRate != CanonicalSampleRate {
		r, err := engine.NewResampler(float64(t.SampleRate), CanonicalSampleRate, quality.engineQuality())
		if err != nil {
			return Track{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		m = MatrixFromChannels(r.ResampleChannels(m.channels)...)
	}
	return FromSamples(m, CanonicalSampleRate), nil
}

func toStereo(m *Matrix) *Matrix {
	switch m.Channels() {
	case stereoChannels:
		return m
	case monoChannels:
		right := append([]float64(nil), m.channels[0]...)
		return MatrixFromChannels(m.channels[0], right)
	}

	out := NewMatrix(stereoChannels, m.Frames())
	var counts [stereoChannels]float64
	for ch, c := range m.channels {
		side := ch % stereoChannels
		dst := out.channels[side]
		for i, v := range c {
			dst[i] += v
		}
		counts[side]++
	}
	for side, dst := range out.channels {
		inv := 1 / counts[side]
		for i := range dst {
			dst[i] *= inv
		}
	}
	return out
}
