package remix

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-remix/internal/testutil"
)

func TestBackgroundGain(t *testing.T) {
	assert.InDelta(t, 1.0, BackgroundGain(1), 1e-12)
	assert.InDelta(t, math.Pow(10, -1.5), BackgroundGain(0), 1e-12)
	assert.InDelta(t, math.Pow(10, -0.75), BackgroundGain(0.5), 1e-12)
	assert.InDelta(t, -15.0, 20*math.Log10(BackgroundGain(0.5)), 1e-9)
}

func TestPrepareBackground_Silence(t *testing.T) {
	layer := toneTrack(0.1, 440)
	tests := []struct {
		name   string
		layer  *Track
		volume float64
	}{
		{"absent", nil, 0.5},
		{"zero volume", &layer, 0},
		{"negative volume", &layer, -1},
		{"empty layer", &Track{Channels: 2, SampleRate: 44100, BitDepth: 16}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := PrepareBackground(tt.layer, tt.volume, 1000, QualityMedium)
			require.NoError(t, err)
			assert.True(t, out.IsCanonical())
			assert.Equal(t, 1000, out.Frames())
			for _, v := range out.Data {
				require.Zero(t, v)
			}
		})
	}
}

func TestPrepareBackground_TileAndAttenuate(t *testing.T) {
	// A 3 second texture at volume 0.5 under a 10 second track: four
	// copies, cut to exactly 10 seconds, 15 dB down.
	const (
		layerFrames  = 3 * CanonicalSampleRate
		pinnedFrames = 10 * CanonicalSampleRate
	)
	left := make([]int, layerFrames)
	right := make([]int, layerFrames)
	for i := range left {
		left[i] = (i%2000 - 1000) * 20
		right[i] = -left[i]
	}
	layer := canonicalTrack(left, right)

	out, err := PrepareBackground(&layer, 0.5, pinnedFrames, QualityMedium)
	require.NoError(t, err)
	require.True(t, out.IsCanonical())
	require.Equal(t, pinnedFrames, out.Frames())

	gain := math.Pow(10, -15.0/20)
	for _, frame := range []int{0, 1, 1999, layerFrames - 1, layerFrames, layerFrames + 7, 3*layerFrames + 5, pinnedFrames - 1} {
		src := frame % layerFrames
		assert.InDelta(t, float64(left[src])*gain, float64(out.Data[2*frame]), 1, "frame %d", frame)
		assert.InDelta(t, float64(right[src])*gain, float64(out.Data[2*frame+1]), 1, "frame %d", frame)
	}
}

func TestPrepareBackground_FullVolumeIsExactCopy(t *testing.T) {
	layer := toneTrack(0.5, 300)
	out, err := PrepareBackground(&layer, 1, layer.Frames()*2+10, QualityMedium)
	require.NoError(t, err)

	n := len(layer.Data)
	assert.Equal(t, layer.Data, out.Data[:n])
	assert.Equal(t, layer.Data, out.Data[n:2*n])
	assert.Equal(t, layer.Data[:20], out.Data[2*n:])
}

func TestPrepareBackground_NormalizesLayer(t *testing.T) {
	mono := Track{
		Data:       testutil.PCM16(testutil.Sine(11025, 440, 22050, 0.5)),
		Channels:   1,
		SampleRate: 22050,
		BitDepth:   16,
	}
	out, err := PrepareBackground(&mono, 1, 30000, QualityMedium)
	require.NoError(t, err)
	assert.True(t, out.IsCanonical())
	assert.Equal(t, 30000, out.Frames())
}

func TestPrepareBackground_InvalidLayer(t *testing.T) {
	bad := Track{Data: []int{1, 2, 3}, Channels: 2, SampleRate: 44100, BitDepth: 16}
	_, err := PrepareBackground(&bad, 0.5, 100, QualityMedium)
	require.ErrorIs(t, err, ErrDecode)
}

func TestOverlay(t *testing.T) {
	base := canonicalTrack([]int{100, 30000, -30000, 5}, []int{-100, 0, 0, 5})

	t.Run("shorter layer", func(t *testing.T) {
		layer := canonicalTrack([]int{1, 10000}, []int{1, -5})
		out := Overlay(base, layer)
		assert.Equal(t, []int{101, -99, 32767, -5, -30000, 0, 5, 5}, out.Data)
		assert.Equal(t, base.Frames(), out.Frames())
	})

	t.Run("longer layer", func(t *testing.T) {
		layer := canonicalTrack([]int{1, 1, -10000, 1, 1, 1}, []int{0, 0, 0, 0, 9, 9})
		out := Overlay(base, layer)
		assert.Equal(t, []int{101, -100, 30001, 0, -32768, 0, 6, 5}, out.Data)
	})

	t.Run("base untouched", func(t *testing.T) {
		before := append([]int(nil), base.Data...)
		Overlay(base, canonicalTrack([]int{5, 5, 5, 5}, []int{5, 5, 5, 5}))
		assert.Equal(t, before, base.Data)
	})

	t.Run("silence is identity", func(t *testing.T) {
		assert.Equal(t, base, Overlay(base, Silence(base.Frames())))
	})
}
