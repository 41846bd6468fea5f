package effects

import (
	"fmt"
	"math"
)

const (
	chorusMaxModulationMs = 20.0
	chorusDepthScale      = 0.5
	chorusMinDelayMs      = 1.0
	chorusMaxCentreMs     = 100.0
	chorusMaxRateHz       = 100.0
)

// ChorusParams configures a modulated short delay.
type ChorusParams struct {
	RateHz        float64
	Depth         float64 // [0, 1]
	CentreDelayMs float64
	Feedback      float64 // (-1, 1)
	Mix           float64 // [0, 1]
}

// DefaultChorusParams returns a gentle 1 Hz chorus around a 7 ms delay.
func DefaultChorusParams() ChorusParams {
	return ChorusParams{RateHz: 1, Depth: 0.25, CentreDelayMs: 7, Feedback: 0, Mix: 0.5}
}

// Validate checks the parameter ranges.
func (p ChorusParams) Validate() error {
	if err := checkRange("chorus rate", p.RateHz, 0, chorusMaxRateHz); err != nil {
		return err
	}
	if err := checkRange("chorus depth", p.Depth, 0, 1); err != nil {
		return err
	}
	if err := checkRange("chorus centre delay", p.CentreDelayMs, chorusMinDelayMs, chorusMaxCentreMs); err != nil {
		return err
	}
	if p.Feedback <= -1 || p.Feedback >= 1 {
		return fmt.Errorf("%w: chorus feedback must be in (-1, 1): %f", ErrInvalidParameter, p.Feedback)
	}
	return checkRange("chorus mix", p.Mix, 0, 1)
}

type chorusVoice struct {
	p          ChorusParams
	sampleRate float64
	buf        []float64
	write      int
	phase      float64
	last       float64
}

func (c *chorusVoice) processBlock(buf []float64) {
	inc := c.p.RateHz / c.sampleRate
	swing := chorusMaxModulationMs * c.p.Depth * chorusDepthScale
	for i, x := range buf {
		lfo := math.Sin(2 * math.Pi * c.phase)
		c.phase += inc
		if c.phase >= 1 {
			c.phase--
		}

		delayMs := math.Max(chorusMinDelayMs, c.p.CentreDelayMs+swing*lfo)
		c.buf[c.write] = x + c.last*c.p.Feedback
		y := c.read(delayMs * c.sampleRate / 1000)
		c.write++
		if c.write == len(c.buf) {
			c.write = 0
		}

		c.last = y
		buf[i] = mix(x, y, c.p.Mix)
	}
}

// read returns the sample delay samples behind the newest write using
// 4-point Hermite interpolation.
func (c *chorusVoice) read(delay float64) float64 {
	pos := float64(c.write) - delay
	size := len(c.buf)
	base := int(math.Floor(pos))
	frac := pos - float64(base)
	at := func(i int) float64 {
		return c.buf[((i%size)+size)%size]
	}
	return hermite4(frac, at(base-1), at(base), at(base+1), at(base+2))
}

// hermite4 interpolates between x0 and x1 at fractional position t.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// NewChorus creates a per-channel chorus. Every channel starts its LFO at
// the same phase.
func NewChorus(sampleRate float64, p ChorusParams) (Processor, error) {
	if err := checkSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("chorus: %w", err)
	}
	maxDelayMs := p.CentreDelayMs + chorusMaxModulationMs*p.Depth*chorusDepthScale
	size := int(math.Ceil(maxDelayMs*sampleRate/1000)) + 4
	return &perChannel{factory: func() (monoProcessor, error) {
		return &chorusVoice{p: p, sampleRate: sampleRate, buf: make([]float64, size)}, nil
	}}, nil
}
