// Package filter provides the filter designs used by the remix engine:
// Kaiser-windowed sinc kernels for resampling and small IIR sections for
// the tone-shaping effects.
package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-audio-remix/internal/mathutil"
)

const (
	// Sinc function constants
	sincZeroThreshold = 1e-10

	// Attenuation bounds accepted by NewKaiser (dB)
	minAttenuation = 20.0
	maxAttenuation = 200.0
)

// Kaiser evaluates a Kaiser window as a continuous function so that
// fractional kernel positions can be sampled directly.
type Kaiser struct {
	beta   float64
	i0Beta float64
}

// NewKaiser returns a Kaiser window designed for the given stopband
// attenuation in decibels.
func NewKaiser(attenuation float64) (*Kaiser, error) {
	if attenuation < minAttenuation || attenuation > maxAttenuation {
		return nil, fmt.Errorf("invalid attenuation: %f dB (must be in [%g, %g])",
			attenuation, minAttenuation, maxAttenuation)
	}
	beta := mathutil.KaiserBeta(attenuation)
	return &Kaiser{beta: beta, i0Beta: mathutil.BesselI0(beta)}, nil
}

// Beta returns the window's β parameter.
func (k *Kaiser) Beta() float64 { return k.beta }

// At evaluates the window at x, where x = ±1 are the window edges.
// Values outside [-1, 1] are zero.
//
//	w(x) = I₀(β·√(1 − x²)) / I₀(β)
func (k *Kaiser) At(x float64) float64 {
	if x < -1 || x > 1 {
		return 0
	}
	return mathutil.BesselI0(k.beta*math.Sqrt(1-x*x)) / k.i0Beta
}

// Window samples the window at length evenly spaced points.
// The result is symmetric: w[i] = w[length-1-i].
func (k *Kaiser) Window(length int) []float64 {
	if length < 1 {
		return []float64{}
	}
	window := make([]float64, length)
	if length == 1 {
		window[0] = 1
		return window
	}
	alpha := float64(length-1) / 2
	for n := range length {
		window[n] = k.At((float64(n) - alpha) / alpha)
	}
	return window
}

// Sinc returns the normalized sinc function sin(πx)/(πx).
func Sinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// WindowedSinc evaluates a low-pass interpolation kernel at offset x
// (in input samples). cutoff is normalized to the input Nyquist rate
// and halfWidth is the kernel half length in input samples.
func (k *Kaiser) WindowedSinc(x, cutoff, halfWidth float64) float64 {
	if math.Abs(x) >= halfWidth {
		return 0
	}
	return cutoff * Sinc(cutoff*x) * k.At(x/halfWidth)
}
