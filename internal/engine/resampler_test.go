package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-audio-remix/internal/testutil"
)

func TestNewResampler_InvalidRates(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		out    float64
		substr string
	}{
		{"Zero input", 0, 48000, "rates must be positive"},
		{"Negative output", 44100, -1, "rates must be positive"},
		{"Ratio too small", 44100 * 1000, 44100, "outside"},
		{"Ratio too large", 100, 44100, "outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResampler(tt.in, tt.out, QualityMedium)
			require.ErrorIs(t, err, ErrInvalidRatio)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestNewResampler_UnknownQuality(t *testing.T) {
	_, err := NewResampler(44100, 48000, Quality(42))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown quality")
}

func TestResampler_OutputLength(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		out  float64
		n    int
		want int
	}{
		{"44.1k to 48k", 44100, 48000, 44100, 48000},
		{"48k to 44.1k", 48000, 44100, 4800, 4410},
		{"Slow down 0.8", 44100 * 0.8, 44100, 1000, 1250},
		{"Speed up 1.25", 44100 * 1.25, 44100, 1000, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, q := range []Quality{QualityQuick, QualityLow, QualityMedium, QualityHigh} {
				r, err := NewResampler(tt.in, tt.out, q)
				require.NoError(t, err)
				out := r.Resample(make([]float64, tt.n))
				assert.Len(t, out, tt.want, "quality %s", q)
			}
		})
	}
}

func TestResampler_DCGain(t *testing.T) {
	for _, q := range []Quality{QualityLow, QualityMedium, QualityHigh} {
		t.Run(q.String(), func(t *testing.T) {
			r, err := NewResampler(44100, 48000, q)
			require.NoError(t, err)

			input := make([]float64, 8192)
			for i := range input {
				input[i] = 0.5
			}
			out := r.Resample(input)

			margin := r.HalfWidth() * 2
			for i := margin; i < len(out)-margin; i++ {
				require.InDelta(t, 0.5, out[i], 1e-6, "sample %d", i)
			}
		})
	}
}

func TestResampler_PreservesToneFrequency(t *testing.T) {
	const freq = 1000.0
	for _, q := range []Quality{QualityQuick, QualityMedium, QualityHigh} {
		t.Run(q.String(), func(t *testing.T) {
			r, err := NewResampler(44100, 48000, q)
			require.NoError(t, err)

			out := r.Resample(testutil.Sine(44100, freq, 44100, 0.8))
			testutil.AssertNoNaNOrInf(t, out)

			got := testutil.ZeroCrossingFrequency(out[1000:len(out)-1000], 48000)
			assert.InDelta(t, freq, got, 1.0)
			assert.InDelta(t, testutil.RMS(testutil.Sine(48000, freq, 48000, 0.8)), testutil.RMS(out[1000:len(out)-1000]), 0.01)
		})
	}
}

// Playing 44.1 kHz audio as if it were sampled at 44.1k·s scales every
// frequency by s.
func TestResampler_SpeedChangeShiftsPitch(t *testing.T) {
	const freq = 440.0
	for _, speed := range []float64{0.8, 1.25} {
		r, err := NewResampler(44100*speed, 44100, QualityMedium)
		require.NoError(t, err)

		out := r.Resample(testutil.Sine(44100, freq, 44100, 0.5))
		got := testutil.ZeroCrossingFrequency(out[500:len(out)-500], 44100)
		assert.InDelta(t, freq*speed, got, 1.0, "speed %v", speed)
	}
}

func TestResampler_DownsampleRejectsAboveNyquist(t *testing.T) {
	r, err := NewResampler(48000, 16000, QualityHigh)
	require.NoError(t, err)

	// 12 kHz is above the 8 kHz output Nyquist rate.
	out := r.Resample(testutil.Sine(48000, 12000, 48000, 0.5))
	assert.Less(t, testutil.RMS(out[200:len(out)-200]), 1e-3)
}

func TestResampler_ResampleToPadsAndTruncates(t *testing.T) {
	r, err := NewResampler(44100, 44100, QualityMedium)
	require.NoError(t, err)

	input := testutil.Sine(1000, 300, 44100, 0.5)
	longer := r.ResampleTo(input, 1500)
	require.Len(t, longer, 1500)
	testutil.AssertSilent(t, longer[1000+r.HalfWidth():])

	for i := r.HalfWidth(); i < 1000-r.HalfWidth(); i++ {
		require.InDelta(t, input[i], longer[i], 1e-3, "identity ratio reproduces sample %d", i)
	}

	assert.Empty(t, r.ResampleTo(input, 0))
}

func TestResampler_ResampleChannels(t *testing.T) {
	r, err := NewResampler(48000, 44100, QualityLow)
	require.NoError(t, err)

	out := r.ResampleChannels([][]float64{make([]float64, 480), make([]float64, 480)})
	require.Len(t, out, 2)
	assert.Len(t, out[0], 441)
	assert.Len(t, out[1], 441)
}

func TestHermite_PassesThroughSamples(t *testing.T) {
	assert.InDelta(t, 2.0, hermite(1, 2, 3, 4, 0), 1e-15)
	assert.InDelta(t, 2.5, hermite(1, 2, 3, 4, 0.5), 1e-15, "linear data stays linear")
}
