package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-audio-remix/internal/filter"
	"github.com/tphakala/go-audio-remix/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

// Quality selects the interpolation kernel.
type Quality int

const (
	// QualityQuick uses cubic Hermite interpolation with no anti-aliasing.
	QualityQuick Quality = iota
	// QualityLow uses a short windowed-sinc kernel (60 dB stopband).
	QualityLow
	// QualityMedium uses an 80 dB windowed-sinc kernel.
	QualityMedium
	// QualityHigh uses a 100 dB windowed-sinc kernel with a 95% passband.
	QualityHigh
)

// String returns the preset name.
func (q Quality) String() string {
	switch q {
	case QualityQuick:
		return "quick"
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ErrInvalidRatio is returned when the conversion ratio is out of range.
var ErrInvalidRatio = errors.New("invalid resampling ratio")

// Resampler converts whole buffers between two sample rates.
//
// A Resampler holds only read-only kernel tables after construction and is
// safe for concurrent use.
type Resampler struct {
	ratio   float64 // output rate / input rate
	quality Quality

	halfWidth int         // kernel half width in input samples
	table     [][]float64 // sincPhases+1 rows of 2*halfWidth taps
}

// NewResampler creates a resampler from inputRate to outputRate.
// The rates only matter through their ratio, so they need not be integers.
func NewResampler(inputRate, outputRate float64, quality Quality) (*Resampler, error) {
	if inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("%w: rates must be positive (input %g, output %g)", ErrInvalidRatio, inputRate, outputRate)
	}
	ratio := outputRate / inputRate
	if ratio < minRatio || ratio > maxRatio {
		return nil, fmt.Errorf("%w: %g outside [%g, %g]", ErrInvalidRatio, ratio, minRatio, maxRatio)
	}

	r := &Resampler{ratio: ratio, quality: quality}
	if quality == QualityQuick {
		return r, nil
	}

	attenuation, passband, err := qualityParams(quality)
	if err != nil {
		return nil, err
	}
	if err := r.buildTable(attenuation, passband); err != nil {
		return nil, err
	}
	return r, nil
}

func qualityParams(q Quality) (attenuation, passband float64, err error) {
	switch q {
	case QualityLow:
		return lowAttenuation, lowPassbandEnd, nil
	case QualityMedium:
		return mediumAttenuation, mediumPassbandEnd, nil
	case QualityHigh:
		return highAttenuation, highPassbandEnd, nil
	default:
		return 0, 0, fmt.Errorf("unknown quality preset: %d", int(q))
	}
}

// buildTable samples the windowed-sinc kernel at sincPhases+1 fractional
// offsets. Each row is normalized to unity DC gain.
func (r *Resampler) buildTable(attenuation, passband float64) error {
	kaiser, err := filter.NewKaiser(attenuation)
	if err != nil {
		return err
	}

	transition := 1 - passband
	// Kernel cutoff sits in the middle of the transition band and follows
	// the output Nyquist rate when downsampling.
	scale := math.Min(1, r.ratio)
	cutoff := scale * (1 - transition/2)

	zeroCrossings := mathutil.KaiserZeroCrossings(attenuation, transition)
	r.halfWidth = min(int(math.Ceil(float64(zeroCrossings)/scale)), maxHalfWidth)
	taps := 2 * r.halfWidth
	halfWidth := float64(r.halfWidth)

	r.table = make([][]float64, sincPhases+1)
	for p := range r.table {
		frac := float64(p) / sincPhases
		row := make([]float64, taps)
		for k := range row {
			x := float64(k-r.halfWidth+1) - frac
			row[k] = kaiser.WindowedSinc(x, cutoff, halfWidth)
		}
		if sum := f64.Sum(row); sum != 0 {
			f64.Scale(row, row, 1/sum)
		}
		r.table[p] = row
	}
	return nil
}

// Ratio returns output rate / input rate.
func (r *Resampler) Ratio() float64 {
	return r.ratio
}

// Quality returns the kernel preset.
func (r *Resampler) Quality() Quality {
	return r.quality
}

// HalfWidth returns the kernel half length in input samples (0 for cubic).
func (r *Resampler) HalfWidth() int {
	return r.halfWidth
}

// OutputLength returns the number of output samples produced for n input
// samples.
func (r *Resampler) OutputLength(n int) int {
	return int(math.Round(float64(n) * r.ratio))
}

// Resample converts input and returns OutputLength(len(input)) samples.
// Output sample i is aligned with input position i/ratio, so there is no
// latency to compensate.
func (r *Resampler) Resample(input []float64) []float64 {
	return r.ResampleTo(input, r.OutputLength(len(input)))
}

// ResampleTo converts input at the resampler's ratio and returns exactly
// outLen samples, zero-filled past the end of the input.
func (r *Resampler) ResampleTo(input []float64, outLen int) []float64 {
	if outLen <= 0 {
		return []float64{}
	}
	if r.quality == QualityQuick {
		return cubicResample(input, r.ratio, outLen)
	}

	output := make([]float64, outLen)
	taps := 2 * r.halfWidth
	scratch := make([]float64, taps)
	step := 1 / r.ratio

	for i := range output {
		t := float64(i) * step
		n := int(math.Floor(t))
		pos := (t - float64(n)) * sincPhases
		phase := int(pos)
		blend := pos - float64(phase)

		start := n - r.halfWidth + 1
		var window []float64
		if start >= 0 && start+taps <= len(input) {
			window = input[start : start+taps]
		} else {
			window = fillWindow(scratch, input, start)
		}

		y := f64.DotProduct(r.table[phase], window)
		if blend > 0 {
			y2 := f64.DotProduct(r.table[phase+1], window)
			y += blend * (y2 - y)
		}
		output[i] = y
	}
	return output
}

// fillWindow copies input[start:start+len(dst)] into dst, zero-padding
// positions that fall outside the input.
func fillWindow(dst, input []float64, start int) []float64 {
	for k := range dst {
		j := start + k
		if j >= 0 && j < len(input) {
			dst[k] = input[j]
		} else {
			dst[k] = 0
		}
	}
	return dst
}

// ResampleChannels converts each channel independently.
func (r *Resampler) ResampleChannels(channels [][]float64) [][]float64 {
	out := make([][]float64, len(channels))
	for ch, data := range channels {
		out[ch] = r.Resample(data)
	}
	return out
}
