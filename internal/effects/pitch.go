package effects

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-remix/internal/engine"
	"github.com/tphakala/go-audio-remix/internal/mathutil"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	pitchFrameSize    = 2048
	pitchAnalysisHop  = pitchFrameSize / 4
	pitchMaxSemitones = 24.0
	// Semitone changes smaller than this leave the signal untouched.
	pitchIdentityEpsilon = 1e-6
	// Window-overlap sums below this are treated as silence.
	pitchMinNorm = 1e-9
)

// PitchShifter changes pitch without changing duration. Each channel is
// time-stretched by the pitch ratio with a phase vocoder and then
// resampled back to its original length.
type PitchShifter struct {
	semitones float64
	quality   engine.Quality

	synthesisHop int
	fft          *fourier.FFT
	window       []float64
}

// NewPitchShifter creates a shifter for the given semitone offset. The
// quality selects the kernel of the final length-restoring resampler.
func NewPitchShifter(semitones float64, quality engine.Quality) (*PitchShifter, error) {
	if err := checkRange("semitones", semitones, -pitchMaxSemitones, pitchMaxSemitones); err != nil {
		return nil, fmt.Errorf("pitch shift: %w", err)
	}
	ratio := mathutil.SemitoneRatio(semitones)
	p := &PitchShifter{
		semitones:    semitones,
		quality:      quality,
		synthesisHop: int(math.Round(pitchAnalysisHop * ratio)),
		fft:          fourier.NewFFT(pitchFrameSize),
		window:       window.Hann(ones(pitchFrameSize)),
	}
	return p, nil
}

// Ratio returns the realized frequency ratio after hop quantization.
func (p *PitchShifter) Ratio() float64 {
	return float64(p.synthesisHop) / pitchAnalysisHop
}

// Process shifts every channel independently.
func (p *PitchShifter) Process(channels [][]float64) error {
	if math.Abs(p.semitones) < pitchIdentityEpsilon {
		return nil
	}
	for _, buf := range channels {
		if len(buf) == 0 {
			continue
		}
		shifted, err := p.shift(buf)
		if err != nil {
			return err
		}
		copy(buf, shifted)
	}
	return nil
}

func (p *PitchShifter) shift(input []float64) ([]float64, error) {
	stretched := p.stretch(input)

	// Input sample 0 sits one frame into the stretched buffer because of
	// the leading zero padding.
	ratio := p.Ratio()
	offset := int(math.Round(pitchFrameSize * ratio))
	segLen := int(math.Round(float64(len(input)) * ratio))
	if segLen < 1 {
		return input, nil
	}
	end := min(offset+segLen, len(stretched))
	segment := stretched[offset:end]

	r, err := engine.NewResampler(float64(segLen), float64(len(input)), p.quality)
	if err != nil {
		return nil, fmt.Errorf("pitch shift: %w", err)
	}
	return r.ResampleTo(segment, len(input)), nil
}

// stretch lengthens input by the synthesis/analysis hop ratio with a
// phase vocoder that keeps per-bin instantaneous frequencies.
func (p *PitchShifter) stretch(input []float64) []float64 {
	const (
		n  = pitchFrameSize
		ha = pitchAnalysisHop
	)
	hs := p.synthesisHop
	bins := n/2 + 1

	// Frame m analyzes input[m*ha-n : m*ha] so the first frames fade in
	// over zero padding and the last ones fade out.
	numFrames := (len(input)+n)/ha + 1
	outLen := (numFrames-1)*hs + n
	out := make([]float64, outLen)
	norm := make([]float64, outLen)

	frame := make([]float64, n)
	coeffs := make([]complex128, bins)
	prevPhase := make([]float64, bins)
	sumPhase := make([]float64, bins)

	for m := range numFrames {
		start := m*ha - n
		for i := range frame {
			j := start + i
			if j >= 0 && j < len(input) {
				frame[i] = input[j] * p.window[i]
			} else {
				frame[i] = 0
			}
		}

		coeffs = p.fft.Coefficients(coeffs, frame)
		for k, c := range coeffs {
			mag, phase := cmplxPolar(c)
			omega := 2 * math.Pi * float64(k) / n
			if m == 0 {
				sumPhase[k] = phase
			} else {
				delta := wrapPhase(phase - prevPhase[k] - omega*ha)
				sumPhase[k] += (omega + delta/ha) * float64(hs)
			}
			prevPhase[k] = phase
			coeffs[k] = complex(mag*math.Cos(sumPhase[k]), mag*math.Sin(sumPhase[k]))
		}

		frame = p.fft.Sequence(frame, coeffs)
		pos := m * hs
		for i, v := range frame {
			w := p.window[i]
			out[pos+i] += v / n * w
			norm[pos+i] += w * w
		}
	}

	for i := range out {
		if norm[i] > pitchMinNorm {
			out[i] /= norm[i]
		}
	}
	return out
}

func cmplxPolar(c complex128) (mag, phase float64) {
	return math.Hypot(real(c), imag(c)), math.Atan2(imag(c), real(c))
}

// wrapPhase maps an angle to [-π, π].
func wrapPhase(x float64) float64 {
	return x - 2*math.Pi*math.Round(x/(2*math.Pi))
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}
