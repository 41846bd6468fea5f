package filter

import (
	"fmt"
	"math"
)

// Section is a transposed direct form II biquad. First-order filters are
// expressed with B2 = A2 = 0. Coefficients are normalized so a0 = 1.
//
//	y[n] = B0·x[n] + B1·x[n-1] + B2·x[n-2] - A1·y[n-1] - A2·y[n-2]
type Section struct {
	B0, B1, B2 float64
	A1, A2     float64

	d0, d1 float64
}

// ProcessSample filters a single sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y
	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Reset clears the filter state.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// MagnitudeAt returns |H(e^jω)| at freq Hz.
func (s *Section) MagnitudeAt(freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	cos1, sin1 := math.Cos(w), math.Sin(w)
	cos2, sin2 := math.Cos(2*w), math.Sin(2*w)

	numRe := s.B0 + s.B1*cos1 + s.B2*cos2
	numIm := -(s.B1*sin1 + s.B2*sin2)
	denRe := 1 + s.A1*cos1 + s.A2*cos2
	denIm := -(s.A1*sin1 + s.A2*sin2)

	return math.Hypot(numRe, numIm) / math.Hypot(denRe, denIm)
}

func validateCutoff(cutoff, sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %f", sampleRate)
	}
	if cutoff <= 0 || cutoff >= sampleRate/2 {
		return fmt.Errorf("invalid cutoff frequency: %f Hz (must be in (0, %f))", cutoff, sampleRate/2)
	}
	return nil
}

// NewFirstOrderLowpass designs a one-pole, one-zero low-pass section with
// the bilinear transform, prewarped at cutoff.
func NewFirstOrderLowpass(cutoff, sampleRate float64) (*Section, error) {
	if err := validateCutoff(cutoff, sampleRate); err != nil {
		return nil, err
	}
	n := math.Tan(math.Pi * cutoff / sampleRate)
	g := 1 / (n + 1)
	return &Section{
		B0: n * g,
		B1: n * g,
		A1: (n - 1) * g,
	}, nil
}

// NewFirstOrderHighpass designs a one-pole, one-zero high-pass section with
// the bilinear transform, prewarped at cutoff.
func NewFirstOrderHighpass(cutoff, sampleRate float64) (*Section, error) {
	if err := validateCutoff(cutoff, sampleRate); err != nil {
		return nil, err
	}
	n := math.Tan(math.Pi * cutoff / sampleRate)
	g := 1 / (n + 1)
	return &Section{
		B0: g,
		B1: -g,
		A1: (n - 1) * g,
	}, nil
}

// NewFirstOrderAllpass designs a first-order all-pass section whose phase
// shift reaches -90° at freq.
func NewFirstOrderAllpass(freq, sampleRate float64) (*Section, error) {
	if err := validateCutoff(freq, sampleRate); err != nil {
		return nil, err
	}
	s := &Section{}
	s.SetAllpass(freq, sampleRate)
	return s, nil
}

// SetAllpass retunes an all-pass section without clearing its state.
// freq is clamped to the valid range instead of being rejected, so
// modulated callers can sweep freely.
func (s *Section) SetAllpass(freq, sampleRate float64) {
	freq = math.Max(1, math.Min(freq, sampleRate*0.49))
	n := math.Tan(math.Pi * freq / sampleRate)
	a := (n - 1) / (n + 1)
	s.B0 = a
	s.B1 = 1
	s.B2 = 0
	s.A1 = a
	s.A2 = 0
}
