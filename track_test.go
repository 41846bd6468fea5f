package remix

import (
	"math"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-remix/internal/testutil"
)

// canonicalTrack builds a canonical stereo track from per-channel samples.
func canonicalTrack(left, right []int) Track {
	return Track{
		Data:       testutil.InterleaveStereo(left, right),
		Channels:   CanonicalChannels,
		SampleRate: CanonicalSampleRate,
		BitDepth:   CanonicalBitDepth,
	}
}

// toneTrack returns a canonical stereo sine of the given length.
func toneTrack(seconds, freq float64) Track {
	n := int(seconds * CanonicalSampleRate)
	left := testutil.PCM16(testutil.Sine(n, freq, CanonicalSampleRate, 0.5))
	right := testutil.PCM16(testutil.Sine(n, freq*1.5, CanonicalSampleRate, 0.5))
	return canonicalTrack(left, right)
}

func TestTrack_FramesAndDuration(t *testing.T) {
	tr := toneTrack(2, 440)
	assert.Equal(t, 88200, tr.Frames())
	assert.Equal(t, 2*time.Second, tr.Duration())
	assert.True(t, tr.IsCanonical())

	assert.Zero(t, Track{}.Frames())
	assert.Zero(t, Track{}.Duration())
}

func TestTrack_Validate(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		ok    bool
	}{
		{"canonical", Track{Data: []int{0, 0}, Channels: 2, SampleRate: 44100, BitDepth: 16}, true},
		{"mono 8 bit", Track{Data: []int{0}, Channels: 1, SampleRate: 8000, BitDepth: 8}, true},
		{"no channels", Track{Data: []int{0}, Channels: 0, SampleRate: 44100, BitDepth: 16}, false},
		{"no rate", Track{Data: []int{0, 0}, Channels: 2, SampleRate: 0, BitDepth: 16}, false},
		{"bad depth", Track{Data: []int{0, 0}, Channels: 2, SampleRate: 44100, BitDepth: 4}, false},
		{"partial frame", Track{Data: []int{0, 0, 0}, Channels: 2, SampleRate: 44100, BitDepth: 16}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.track.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrDecode)
			}
		})
	}
}

func TestTrack_BufferConversion(t *testing.T) {
	tr := canonicalTrack([]int{1, 2}, []int{3, 4})
	buf := tr.Buffer()
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, 44100, buf.Format.SampleRate)
	assert.Equal(t, 16, buf.SourceBitDepth)
	assert.Equal(t, []int{1, 3, 2, 4}, buf.Data)

	assert.Equal(t, tr, TrackFromBuffer(buf))
	assert.Equal(t, Track{}, TrackFromBuffer(nil))
	assert.Equal(t, Track{}, TrackFromBuffer(&audio.IntBuffer{}))
}

func TestSampleConversion_RoundTrip(t *testing.T) {
	tr := canonicalTrack(
		[]int{0, 1, -1, 32767, -32768, 12345},
		[]int{-32768, 32767, 7, -7, 0, -12345},
	)
	m := ToSamples(tr)
	require.Equal(t, 2, m.Channels())
	require.Equal(t, 6, m.Frames())
	assert.InDelta(t, 32767.0/32768.0, m.At(3, 0), 1e-15)
	assert.InDelta(t, -1.0, m.At(0, 1), 1e-15)

	assert.Equal(t, tr, FromSamples(m, CanonicalSampleRate))
}

func TestSampleConversion_RoundTripLong(t *testing.T) {
	tr := toneTrack(0.5, 1000)
	assert.Equal(t, tr, FromSamples(ToSamples(tr), CanonicalSampleRate))
}

func TestFromSamples_ClipsAndRounds(t *testing.T) {
	m := MatrixFromChannels([]float64{1.5, -2, 0.5 / 32768, -0.6 / 32768, math.Nextafter(1, 0)})
	tr := FromSamples(m, 22050)

	assert.Equal(t, 1, tr.Channels)
	assert.Equal(t, 22050, tr.SampleRate)
	assert.Equal(t, 16, tr.BitDepth)
	assert.Equal(t, []int{32767, -32768, 1, -1, 32767}, tr.Data)
}

func TestToSamples_BitDepthScaling(t *testing.T) {
	tr := Track{Data: []int{64, -128}, Channels: 1, SampleRate: 8000, BitDepth: 8}
	m := ToSamples(tr)
	assert.InDelta(t, 0.5, m.At(0, 0), 1e-15)
	assert.InDelta(t, -1.0, m.At(1, 0), 1e-15)

	tr = Track{Data: []int{1 << 22}, Channels: 1, SampleRate: 48000, BitDepth: 24}
	assert.InDelta(t, 0.5, ToSamples(tr).At(0, 0), 1e-15)
}

func TestMatrix_Clone(t *testing.T) {
	m := MatrixFromChannels([]float64{1, 2}, []float64{3, 4})
	c := m.Clone()
	c.Channel(0)[0] = 99
	assert.InDelta(t, 1.0, m.At(0, 0), 0)
	assert.Equal(t, 2, c.Frames())
	assert.Equal(t, 0, (&Matrix{}).Frames())
}

func TestMatrixFromChannels_MismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		MatrixFromChannels([]float64{1, 2}, []float64{3})
	})
}

func TestDecodeTrack(t *testing.T) {
	data := testutil.WAVBytes([]int{100, -100, 200, -200}, 22050, 2, 16)
	tr, err := DecodeTrack(data)
	require.NoError(t, err)
	assert.Equal(t, Track{Data: []int{100, -100, 200, -200}, Channels: 2, SampleRate: 22050, BitDepth: 16}, tr)

	_, err = DecodeTrack([]byte("definitely not audio"))
	require.ErrorIs(t, err, ErrDecode)
}
