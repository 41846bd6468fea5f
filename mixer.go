package remix

import (
	"slices"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-remix/internal/mathutil"
)

// Silence returns a canonical silent track of the given length.
func Silence(frames int) Track {
	return Track{
		Data:       make([]int, max(frames, 0)*CanonicalChannels),
		Channels:   CanonicalChannels,
		SampleRate: CanonicalSampleRate,
		BitDepth:   CanonicalBitDepth,
	}
}

// BackgroundGain maps a layer volume in [0, 1] to a linear gain:
// -30·(1-volume) dB.
func BackgroundGain(volume float64) float64 {
	return mathutil.DBToGain(backgroundFloorDB * (1 - volume))
}

// PrepareBackground turns an optional layer into a canonical track of
// exactly pinnedFrames frames. The layer is attenuated by BackgroundGain,
// then looped end to end and cut to length. A nil or empty layer, or a
// volume of zero or less, yields silence.
func PrepareBackground(layer *Track, volume float64, pinnedFrames int, quality Quality) (Track, error) {
	if layer == nil || volume <= 0 || layer.Frames() == 0 || pinnedFrames <= 0 {
		return Silence(pinnedFrames), nil
	}

	t, err := Normalize(*layer, quality)
	if err != nil {
		return Track{}, err
	}
	if t.Frames() == 0 {
		return Silence(pinnedFrames), nil
	}

	m := ToSamples(t)
	gain := BackgroundGain(volume)
	out := NewMatrix(CanonicalChannels, pinnedFrames)
	scaled := make([]float64, m.Frames())
	for ch, src := range m.channels {
		f64.Scale(scaled, src, gain)
		dst := out.channels[ch]
		for off := 0; off < pinnedFrames; off += len(scaled) {
			copy(dst[off:], scaled)
		}
	}
	return FromSamples(out, CanonicalSampleRate), nil
}

// Overlay mixes layer onto base sample by sample with hard clipping. The
// result always has base's length: base samples past the end of layer are
// copied unchanged and layer samples past the end of base are dropped.
// Both tracks must share a channel layout.
func Overlay(base, layer Track) Track {
	n := min(len(base.Data), len(layer.Data))
	n -= n % max(base.Channels, 1)

	sum := make([]float64, n)
	add := make([]float64, n)
	for i := range n {
		sum[i] = float64(base.Data[i])
		add[i] = float64(layer.Data[i])
	}
	floats.Add(sum, add)

	out := base
	out.Data = slices.Clone(base.Data)
	for i, v := range sum {
		out.Data[i] = int(min(max(v, minSample16), maxSample16))
	}
	return out
}
